package settlersdb

// SlotCount is the number of player slots in a games row.
const SlotCount = 4

// FoldSeats maps a game's seats onto the SlotCount player slots of a games
// row. Games with at most four seats are copied as-is. For five and six seat
// games the occupants of seats 4 and 5 are moved into the first four slots
// where that loses the least information:
//
//   - a vacant low slot is taken first;
//   - otherwise the lowest-scoring robot that did not win is replaced, unless
//     the high seat is also a robot that did not win and did not score more;
//   - a human winner in a high seat who finds no vacant or robot slot
//     overwrites the lowest-scoring of the first four slots.
//
// Seat 4 is placed before seat 5, unless seat 5 is human and either won or
// seat 4 is a robot that did not win. Seats that find no slot are dropped.
func FoldSeats(g GameResult) [SlotCount]Seat {
	seats := make([]Seat, len(g.Seats))
	for i, s := range g.Seats {
		if s.Vacant {
			s = Seat{Vacant: true}
		}
		seats[i] = s
	}
	for len(seats) < SlotCount {
		seats = append(seats, Seat{Vacant: true})
	}

	slots := [SlotCount]Seat(seats[:SlotCount])
	if len(seats) == SlotCount || (isVacant(seats, 4) && isVacant(seats, 5)) {
		return slots
	}

	winner := g.Winner
	if winner < 0 || winner >= len(seats) || seats[winner].Vacant {
		winner = -1
	}

	nVacantLow, nBotLow := 0, 0
	for pn := range slots {
		switch {
		case slots[pn].Vacant:
			nVacantLow++
		case slots[pn].Robot && pn != winner:
			nBotLow++
		}
	}

	high := [2]int{-1, -1}
	if !isVacant(seats, 4) {
		high[0] = 4
	}
	if !isVacant(seats, 5) {
		switch {
		case high[0] == -1:
			high[0] = 5
		case !seats[5].Robot && (winner == 5 || (seats[4].Robot && winner != 4)):
			high = [2]int{5, 4}
		default:
			high[1] = 5
		}
	}

	if winner >= SlotCount && !seats[winner].Robot && nVacantLow == 0 && nBotLow == 0 {
		low := 0
		for pn := 1; pn < SlotCount; pn++ {
			if slots[pn].Score < slots[low].Score {
				low = pn
			}
		}
		slots[low] = seats[winner]
		return slots
	}

	for _, pnH := range high {
		if pnH == -1 {
			break
		}

		switch {
		case nVacantLow > 0:
			for pn := range slots {
				if !slots[pn].Vacant {
					continue
				}
				slots[pn] = seats[pnH]
				if winner == pnH {
					winner = pn
				}
				nVacantLow--
				break
			}

		case nBotLow > 0:
			lowBot := -1
			for pn := range slots {
				if pn == winner || !slots[pn].Robot {
					continue
				}
				if lowBot == -1 || slots[pn].Score < slots[lowBot].Score {
					lowBot = pn
				}
			}

			donor := seats[pnH]
			if lowBot != -1 && (!donor.Robot || winner == pnH || donor.Score > slots[lowBot].Score) {
				slots[lowBot] = donor
				if winner == pnH {
					winner = lowBot
				}
				nBotLow--
			}
		}
	}

	return slots
}

func isVacant(seats []Seat, pn int) bool {
	return pn >= len(seats) || seats[pn].Vacant
}

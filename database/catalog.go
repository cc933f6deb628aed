package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sagarc03/settlersdb"
)

// SchemaVersion is the generation of the table layout. Versions are ordered.
type SchemaVersion int

const (
	// SchemaOriginal has case-sensitive nicknames.
	SchemaOriginal SchemaVersion = 1000
	// Schema1200 adds users.nickname_lc with the unique index users__l.
	Schema1200 SchemaVersion = 1200
	// SchemaLatest is the version the upgrade produces.
	SchemaLatest = Schema1200
)

// Op names a statement the facade executes.
type Op int

const (
	OpCreateAccount Op = iota + 1
	OpRecordLogin
	OpUserExistsByName
	OpUserPasswordByName
	OpUserByHost
	OpUpdateLastLogin
	OpUpdatePassword
	OpSaveGameResult
	OpRobotParamsByName
	OpCountUsers
)

var opNames = map[Op]string{
	OpCreateAccount:      "create-account",
	OpRecordLogin:        "record-login",
	OpUserExistsByName:   "user-exists-by-name",
	OpUserPasswordByName: "user-password-by-name",
	OpUserByHost:         "user-by-host",
	OpUpdateLastLogin:    "update-last-login",
	OpUpdatePassword:     "update-password",
	OpSaveGameResult:     "save-game-result",
	OpRobotParamsByName:  "robot-params-by-name",
	OpCountUsers:         "count-users",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Ops lists every statement in a stable order.
func Ops() []Op {
	return []Op{
		OpCreateAccount, OpRecordLogin, OpUserExistsByName, OpUserPasswordByName,
		OpUserByHost, OpUpdateLastLogin, OpUpdatePassword, OpSaveGameResult,
		OpRobotParamsByName, OpCountUsers,
	}
}

// statements holds the text of each op, written with ? placeholders. An op
// missing from a newer version uses the original text.
var statements = map[SchemaVersion]map[Op]string{
	SchemaOriginal: {
		OpCreateAccount:      `INSERT INTO users(nickname,host,password,email,lastlogin) VALUES (?,?,?,?,?)`,
		OpRecordLogin:        `INSERT INTO logins(nickname,host,lastlogin) VALUES (?,?,?)`,
		OpUserExistsByName:   `SELECT nickname FROM users WHERE nickname = ?`,
		OpUserPasswordByName: `SELECT nickname,password FROM users WHERE nickname = ?`,
		OpUserByHost:         `SELECT nickname FROM users WHERE host = ?`,
		OpUpdateLastLogin:    `UPDATE users SET lastlogin = ? WHERE nickname = ?`,
		OpUpdatePassword:     `UPDATE users SET password = ? WHERE nickname = ?`,
		OpSaveGameResult: `INSERT INTO games(gamename,player1,player2,player3,player4,score1,score2,score3,score4,starttime)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
		OpRobotParamsByName: `SELECT maxgamelength,maxeta,etabonusfactor,adversarialfactor,leaderadversarialfactor,
			devcardmultiplier,threatmultiplier,strategytype,tradeflag FROM robotparams WHERE robotname = ?`,
		OpCountUsers: `SELECT count(*) FROM users`,
	},
	Schema1200: {
		OpCreateAccount:      `INSERT INTO users(nickname,host,password,email,lastlogin,nickname_lc) VALUES (?,?,?,?,?,?)`,
		OpUserExistsByName:   `SELECT nickname FROM users WHERE nickname_lc = ?`,
		OpUserPasswordByName: `SELECT nickname,password FROM users WHERE nickname_lc = ?`,
		OpUpdatePassword:     `UPDATE users SET password = ? WHERE nickname_lc = ?`,
	},
}

// Catalog is the statement set for one schema version and dialect.
type Catalog struct {
	version  SchemaVersion
	dialect  Dialect
	bindType int
	text     map[Op]string
}

// NewCatalog builds the statements for version, rebound to the placeholder
// style of driverName.
func NewCatalog(version SchemaVersion, dialect Dialect, driverName string) *Catalog {
	c := &Catalog{
		version:  version,
		dialect:  dialect,
		bindType: sqlx.BindType(driverName),
		text:     make(map[Op]string, len(opNames)),
	}

	for op := range opNames {
		q, ok := statements[version][op]
		if !ok {
			q = statements[SchemaOriginal][op]
		}
		c.text[op] = c.Rebind(q)
	}

	return c
}

// Version returns the schema version the statements were built for.
func (c *Catalog) Version() SchemaVersion {
	return c.version
}

// Dialect returns the dialect the statements were built for.
func (c *Catalog) Dialect() Dialect {
	return c.dialect
}

// IsLatest reports whether the statements target SchemaLatest.
func (c *Catalog) IsLatest() bool {
	return c.version >= SchemaLatest
}

// StatementFor returns the text of op. It panics on an op it does not know.
func (c *Catalog) StatementFor(op Op) string {
	q, ok := c.text[op]
	if !ok {
		panic(fmt.Sprintf("database: no statement for %s", op))
	}
	return q
}

// Rebind converts ? placeholders in q to the dialect's style.
func (c *Catalog) Rebind(q string) string {
	return sqlx.Rebind(c.bindType, q)
}

// NameKey returns the value user lookups compare against: the nickname
// itself on the original schema, its lowercase form from Schema1200 on.
func (c *Catalog) NameKey(name string) string {
	if c.version >= Schema1200 {
		return settlersdb.LowerNickname(name)
	}
	return name
}

const (
	unfilledNicknameLC       = `SELECT count(*) FROM users WHERE nickname_lc IS NULL`
	oracleHasNicknameLC = `SELECT count(*) FROM user_tab_columns WHERE table_name = 'USERS' AND column_name = 'NICKNAME_LC'`
)

// readVersion checks whether users.nickname_lc exists and is filled in for
// every user. Any failure, such as a missing users table, means
// SchemaOriginal. So does a column with NULL keys, which is what an upgrade
// that failed and could not drop the column leaves behind.
func readVersion(ctx context.Context, q querier, d Dialect) SchemaVersion {
	if d == DialectOracle {
		var n int
		if err := q.QueryRowContext(ctx, oracleHasNicknameLC).Scan(&n); err != nil || n == 0 {
			return SchemaOriginal
		}
	}

	var unfilled int
	if err := q.QueryRowContext(ctx, unfilledNicknameLC).Scan(&unfilled); err != nil || unfilled > 0 {
		return SchemaOriginal
	}
	return Schema1200
}

package config

import "testing"

func TestNewDB_SQLiteMemory(t *testing.T) {
	t.Setenv("GORM_LOG", "off")
	db, err := NewDB(&Config{DBDriver: "sqlite", SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	sqldb, err := db.DB()
	if err != nil {
		t.Fatalf("DB(): %v", err)
	}
	defer sqldb.Close()
	if err := sqldb.Ping(); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestNewDB_UnknownDriver(t *testing.T) {
	if _, err := NewDB(&Config{DBDriver: "oracle"}); err == nil {
		t.Error("want error for unsupported driver")
	}
}

func TestMySQLDSN(t *testing.T) {
	if got := mysqlDSN(&Config{MySQLDSN: "u:p@tcp(h:1)/d"}); got != "u:p@tcp(h:1)/d" {
		t.Errorf("explicit DSN = %q", got)
	}
	t.Setenv("MYSQL_USER", "u")
	t.Setenv("MYSQL_PASS", "p")
	t.Setenv("MYSQL_HOST", "db")
	t.Setenv("MYSQL_DB", "app")
	want := "u:p@tcp(db:3306)/app?parseTime=true&charset=utf8mb4&loc=Local"
	if got := mysqlDSN(&Config{}); got != want {
		t.Errorf("mysqlDSN = %q, want %q", got, want)
	}
}

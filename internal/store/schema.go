package store

// schemas holds the CREATE TABLE statement for each supported driver.
var schemas = map[string]string{
	"sqlite": `CREATE TABLE IF NOT EXISTS ` + TableName + ` (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reading_time TEXT NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	precip_type TEXT NULL,
	temperature REAL NOT NULL,
	apparent_temperature REAL NOT NULL,
	humidity REAL NOT NULL,
	wind_speed REAL NOT NULL,
	wind_bearing REAL NOT NULL,
	visibility REAL NOT NULL,
	pressure REAL NOT NULL
)`,
	"mysql": `CREATE TABLE IF NOT EXISTS ` + TableName + ` (
	id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
	reading_time VARCHAR(40) NOT NULL,
	summary VARCHAR(64) NOT NULL DEFAULT '',
	precip_type VARCHAR(16) NULL,
	temperature DOUBLE NOT NULL,
	apparent_temperature DOUBLE NOT NULL,
	humidity DOUBLE NOT NULL,
	wind_speed DOUBLE NOT NULL,
	wind_bearing DOUBLE NOT NULL,
	visibility DOUBLE NOT NULL,
	pressure DOUBLE NOT NULL,
	KEY idx_reading_time (reading_time)
)`,
}

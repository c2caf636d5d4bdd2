package data

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// User holds a visitor's saved place and preferences. All fields are optional;
// nil means "use the defaults".
type User struct {
	gorm.Model
	Name     string
	LastSeen time.Time

	// Saved place. Timezone is an IANA zone name.
	PlaceName  string
	Lat, Long  *float64
	Timezone   string
	GoldenSpan *int64 // minutes
}

func PostgresFromEnvOrDie() *gorm.DB {
	pw := os.Getenv("PGPASSWORD")
	host := os.Getenv("PGHOST")
	port := os.Getenv("PGPORT")
	dsn := fmt.Sprintf("host=%s user=postgres password=%s dbname=sundash port=%s sslmode=disable TimeZone=UTC",
		host,
		pw,
		port)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect to database")
	}
	db.AutoMigrate(&User{})
	return db
}

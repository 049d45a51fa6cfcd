package db

import "time"

// StationRow is the stations table.
type StationRow struct {
	ID          int64     `gorm:"primaryKey;column:id;autoIncrement"`
	StationID   string    `gorm:"column:station_id;type:varchar(128);not null;index"`
	Name        string    `gorm:"column:name;type:varchar(255);not null"`
	Type        string    `gorm:"column:type;type:varchar(64);not null"`
	EastWest    string    `gorm:"column:east_west;type:varchar(16)"`
	Latitude    *float64  `gorm:"column:latitude"`
	Longitude   *float64  `gorm:"column:longitude"`
	Ortsteil    string    `gorm:"column:ortsteil;type:varchar(255)"`
	Bezirk      string    `gorm:"column:bezirk;type:varchar(255)"`
	BezirkSide  string    `gorm:"column:bezirk_east_west;type:varchar(16)"`
	GmtCreate   time.Time `gorm:"column:gmt_create;autoCreateTime"`
	GmtModified time.Time `gorm:"column:gmt_modified;autoUpdateTime"`
}

func (StationRow) TableName() string { return "stations" }

// LineRow is the transit lines table.
type LineRow struct {
	ID          int64     `gorm:"primaryKey;column:id;autoIncrement"`
	LineID      string    `gorm:"column:line_id;type:varchar(128);not null;index"`
	Name        string    `gorm:"column:name;type:varchar(255);not null"`
	Mode        string    `gorm:"column:mode;type:varchar(64);not null"`
	EastWest    string    `gorm:"column:east_west;type:varchar(16)"`
	Capacity    float64   `gorm:"column:capacity;not null;default:0"`
	Frequency   float64   `gorm:"column:frequency;not null;default:0"`
	LengthKM    float64   `gorm:"column:length_km;not null;default:0"`
	GmtCreate   time.Time `gorm:"column:gmt_create;autoCreateTime"`
	GmtModified time.Time `gorm:"column:gmt_modified;autoUpdateTime"`
}

func (LineRow) TableName() string { return "transit_lines" }

// ServiceRow is one serves relationship (line serves station in a year).
type ServiceRow struct {
	ID        int64  `gorm:"primaryKey;column:id;autoIncrement"`
	LineID    string `gorm:"column:line_id;type:varchar(128);not null;index"`
	StationID string `gorm:"column:station_id;type:varchar(128);not null;index"`
	Year      int    `gorm:"column:year;not null;index"`
}

func (ServiceRow) TableName() string { return "line_services" }

// ActivityRow is the core-station activity period table. ObservedYears is a
// comma-separated list of snapshot years.
type ActivityRow struct {
	ID            int64  `gorm:"primaryKey;column:id;autoIncrement"`
	StationID     string `gorm:"column:station_id;type:varchar(128);not null;index"`
	Name          string `gorm:"column:name;type:varchar(255);not null"`
	EastWest      string `gorm:"column:east_west;type:varchar(16)"`
	StartYear     int    `gorm:"column:start_year"`
	EndYear       int    `gorm:"column:end_year"`
	ObservedYears string `gorm:"column:observed_years;type:text"`
}

func (ActivityRow) TableName() string { return "station_activity" }

package entity

import (
	"time"

	"gorm.io/datatypes"
)

// HistoricalIPO is a past listing with its post-IPO performance, used to find comparables.
type HistoricalIPO struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Ticker            string         `gorm:"not null;index" json:"ticker"`
	Name              string         `gorm:"not null" json:"name"`
	Sector            *string        `json:"sector,omitempty"`
	Industry          *string        `json:"industry,omitempty"`
	IPODate           time.Time      `gorm:"column:ipo_date;not null;index" json:"ipo_date"`
	RevenueGrowthYoY  *float64       `gorm:"column:revenue_growth_yoy" json:"revenue_growth_yoy,omitempty"`
	GrossMargin       *float64       `json:"gross_margin,omitempty"`
	OperatingMargin   *float64       `json:"operating_margin,omitempty"`
	MarketCapAtIPO    *float64       `gorm:"column:market_cap_at_ipo" json:"market_cap_at_ipo,omitempty"`
	MarketCapCategory *string        `json:"market_cap_category,omitempty"`
	FirstDayReturn    *float64       `json:"first_day_return,omitempty"`
	FirstWeekReturn   *float64       `json:"first_week_return,omitempty"`
	FirstMonthReturn  *float64       `json:"first_month_return,omitempty"`
	Metadata          datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName pins the table name; gorm would otherwise pluralize to historical_ip_os.
func (HistoricalIPO) TableName() string {
	return "historical_ipos"
}

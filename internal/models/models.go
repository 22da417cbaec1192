package models

import (
	"time"

	"github.com/lib/pq"
)

// Фиксированные категории площадок (значения приходят из справочника UI)
const (
	PropertyTypeHalaman    = "Halaman"
	PropertyTypeRukoKios   = "Ruko/Kios"
	PropertyTypeGedungMall = "Gedung/Mall"
	PropertyTypeStanBooth  = "Stan/Booth"
	PropertyTypeKantin     = "Kantin"
	PropertyTypeGudang     = "Gudang"
	PropertyTypeTanah      = "Tanah Kosong"
)

const (
	TransactionTypeSewa      = "Sewa"
	TransactionTypeBagiHasil = "Bagi Hasil"
)

const (
	RentalDurationHarian   = "Harian"
	RentalDurationMingguan = "Mingguan"
	RentalDurationBulanan  = "Bulanan"
	RentalDurationTahunan  = "Tahunan"
)

// Commodity - объявление об аренде коммерческой площадки.
// TotalPages не хранится в БД: это артефакт пагинации, шлюз проставляет
// его на каждый элемент выборки.
type Commodity struct {
	CommodityID          string         `json:"id" db:"commodity_id"`
	Title                string         `json:"title" db:"title"`
	Type                 string         `json:"type" db:"type"`
	Address              string         `json:"address" db:"address"`
	Location             string         `json:"location" db:"location"`
	Description          string         `json:"description" db:"description"`
	Price                int64          `json:"price" db:"price"`
	RentalDuration       string         `json:"rentalDuration" db:"rental_duration"`
	TransactionType      string         `json:"transactionType" db:"transaction_type"`
	Area                 float64        `json:"area" db:"area"`
	Images               pq.StringArray `json:"images" db:"images"`
	VideoURL             string         `json:"videoUrl" db:"video_url"`
	Facilities           pq.StringArray `json:"facilities" db:"facilities"`
	AllowedBusinessTypes pq.StringArray `json:"allowedBusinessTypes" db:"allowed_business_types"`
	Security             pq.StringArray `json:"security" db:"security"`
	RentalRequirements   pq.StringArray `json:"rentalRequirements" db:"rental_requirements"`
	Flexibility          pq.StringArray `json:"flexibility" db:"flexibility"`
	SpecialConditions    pq.StringArray `json:"specialConditions" db:"special_conditions"`
	OwnerID              string         `json:"ownerId" db:"owner_id"`
	OwnerName            string         `json:"ownerName" db:"owner_name"`
	PhoneNumber          string         `json:"phoneNumber" db:"phone_number"`
	Email                string         `json:"email" db:"email"`
	Availability         time.Time      `json:"availability" db:"availability"`
	LastModified         time.Time      `json:"lastModified" db:"last_modified"`
	TotalPages           int            `json:"totalPages" db:"-"`
}

type User struct {
	UserID                 string    `json:"userId" db:"user_id"`
	Username               string    `json:"username" db:"username"`
	FullName               string    `json:"fullName" db:"full_name"`
	Email                  string    `json:"email" db:"email"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	PhoneNumber            string    `json:"phoneNumber" db:"phone_number"`
	Address                string    `json:"address" db:"address"`
	Image                  string    `json:"image" db:"image"`
	UserType               string    `json:"userType" db:"user_type"`
	Description            string    `json:"description" db:"description"`
	Instagram              string    `json:"instagram" db:"instagram"`
	LinkedIn               string    `json:"linkedIn" db:"linked_in"`
	Facebook               string    `json:"facebook" db:"facebook"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"-" db:"refresh_token_expiry_time"`
	CreatedAt              time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt              time.Time `json:"updatedAt" db:"updated_at"`
}

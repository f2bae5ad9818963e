package dto

import (
	"time"

	domainlisting "gearshare/internal/domain/listing"
	domainmoney "gearshare/internal/domain/shared/money"
)

type Listing struct {
	ID          string            `json:"id"`
	OwnerID     string            `json:"owner_id"`
	Title       string            `json:"title"`
	Price       domainmoney.Money `json:"price"`
	Unit        string            `json:"unit"`
	IsService   bool              `json:"is_service"`
	IsAvailable bool              `json:"is_available"`
	Deposit     domainmoney.Money `json:"deposit"`
	CreatedAt   time.Time         `json:"created_at"`
}

func MapListing(l *domainlisting.Listing) Listing {
	return Listing{
		ID:          string(l.ID),
		OwnerID:     string(l.Owner),
		Title:       l.Title,
		Price:       l.Price,
		Unit:        string(l.Unit),
		IsService:   l.IsService,
		IsAvailable: l.IsAvailable,
		Deposit:     l.Deposit,
		CreatedAt:   l.CreatedAt,
	}
}

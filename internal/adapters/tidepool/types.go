package tidepool

import (
	"time"

	"github.com/cuttestkittensrule/carepartner/internal/domain"
)

// The platform stores glucose in mmol/L; the app works in mg/dL.
const mgdlPerMmolL = 18.0182

type currentUserResponse struct {
	UserID string `json:"userid"`
}

type trustUser struct {
	UserID  string `json:"userid"`
	Profile *struct {
		FullName string `json:"fullName"`
	} `json:"profile"`
	TrustorPermissions map[string]struct{} `json:"trustorPermissions"`
}

func (u trustUser) toDomain() domain.TrustRelationship {
	trust := domain.TrustRelationship{UserID: u.UserID}
	if u.Profile != nil {
		trust.FullName = u.Profile.FullName
	}
	for name := range u.TrustorPermissions {
		trust.Permissions = append(trust.Permissions, domain.Permission(name))
	}
	return trust
}

type wireAmount struct {
	Amount float64 `json:"amount"`
}

type wireRecord struct {
	Type           string      `json:"type"`
	Time           string      `json:"time,omitempty"`
	Value          *float64    `json:"value,omitempty"`
	Units          string      `json:"units,omitempty"`
	Trend          string      `json:"trend,omitempty"`
	Rate           *float64    `json:"rate,omitempty"`
	DeliveryType   string      `json:"deliveryType,omitempty"`
	CarbsOnBoard   *wireAmount `json:"carbsOnBoard,omitempty"`
	InsulinOnBoard *wireAmount `json:"insulinOnBoard,omitempty"`
}

func (r wireRecord) toDomain() domain.Record {
	record := domain.Record{
		Kind:     domain.RecordKind(r.Type),
		Trend:    domain.Trend(r.Trend),
		Rate:     r.Rate,
		Delivery: domain.DeliveryType(r.DeliveryType),
	}

	if ts, err := time.Parse(time.RFC3339, r.Time); err == nil {
		record.Time = &ts
	}

	if r.Value != nil {
		reading := *r.Value
		if isMmolL(r.Units) {
			reading *= mgdlPerMmolL
		}
		record.Reading = &reading
	}

	if r.CarbsOnBoard != nil {
		carbs := r.CarbsOnBoard.Amount
		record.CarbsOnBoard = &carbs
	}
	if r.InsulinOnBoard != nil {
		insulin := r.InsulinOnBoard.Amount
		record.InsulinOnBoard = &insulin
	}
	return record
}

func isMmolL(units string) bool {
	return units == "mmol/L" || units == "mmol/l"
}

type wireInvitation struct {
	Key       string    `json:"key"`
	Type      string    `json:"type"`
	CreatorID string    `json:"creatorId"`
	Created   time.Time `json:"created"`
	Creator   *struct {
		Profile *struct {
			FullName string `json:"fullName"`
		} `json:"profile"`
	} `json:"creator"`
}

func (i wireInvitation) toDomain() domain.Invitation {
	inv := domain.Invitation{
		Key:       i.Key,
		Type:      i.Type,
		CreatorID: i.CreatorID,
		Created:   i.Created,
	}
	if i.Creator != nil && i.Creator.Profile != nil {
		inv.CreatorName = i.Creator.Profile.FullName
	}
	return inv
}

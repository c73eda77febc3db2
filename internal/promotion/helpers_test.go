package promotion

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func uuidMust(value string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		panic(err)
	}
	return id
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

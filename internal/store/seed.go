package store

import (
	"context"
	"fmt"
	"time"

	"accounts-cli/internal/model"

	"github.com/shopspring/decimal"
)

var seedNames = []string{
	"Acme", "Globex", "Initech", "Umbrella", "Hooli", "Stark", "Wayne", "Wonka",
	"Tyrell", "Cyberdyne", "Soylent", "Vandelay", "Oscorp", "Gringotts", "Aperture",
}

var seedIndustries = []string{
	"Technology", "Energy", "Banking", "Retail", "Manufacturing", "Healthcare", "",
}

// SeedAccounts inserts n deterministic demo accounts and returns them.
// Creation times are spaced one millisecond apart so fetch order matches seed order.
func (s Store) SeedAccounts(ctx context.Context, n int) ([]model.Account, error) {
	base := time.Now().UTC()
	out := make([]model.Account, 0, n)
	for i := 0; i < n; i++ {
		a := model.Account{
			Name:      fmt.Sprintf("%s %03d", seedNames[i%len(seedNames)], i+1),
			Industry:  seedIndustries[i%len(seedIndustries)],
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		// Every fifth account has no revenue on file.
		if i%5 != 4 {
			a.AnnualRevenue = decimal.NewNullDecimal(decimal.NewFromInt(int64((i%9+1)*125000 + i*1000)))
		}
		created, err := s.CreateAccount(ctx, a)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

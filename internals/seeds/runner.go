package seeds

import (
	"context"

	"schoolledger_backend/internals/features/finance/ledger/service"
	ledgerSeed "schoolledger_backend/internals/seeds/ledger"
)

const DefaultLedgerSeed = "internals/seeds/ledger/data_ledger.json"

func RunAllSeeds(ctx context.Context, l *service.Ledger, ledgerFile string) error {
	if ledgerFile == "" {
		ledgerFile = DefaultLedgerSeed
	}
	_, err := ledgerSeed.SeedLedgerFromJSON(ctx, l, ledgerFile)
	return err
}

// bankctl is a small operator tool around the ledger engine. It stands
// in for the authenticated UI layer: it parses ids and amounts, calls
// the engine, and formats results. Authentication and transport are out
// of its hands entirely.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/atlasbank/ledger-core/internal/config"
	"github.com/atlasbank/ledger-core/internal/events/kafka"
	"github.com/atlasbank/ledger-core/internal/interfaces"
	"github.com/atlasbank/ledger-core/internal/ledger"
	"github.com/atlasbank/ledger-core/internal/logging"
	"github.com/atlasbank/ledger-core/internal/models"
	"github.com/atlasbank/ledger-core/internal/storage/jsonfile"
	"github.com/atlasbank/ledger-core/internal/storage/postgres"
)

const usage = `usage: bankctl <command> [args]

commands:
  create
  deposit  <account> <amount>
  withdraw <account> <amount>
  transfer <from> <to> <amount>
  balance  <account>
  history  <account>`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	logger, err := logging.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("opening account store", zap.Error(err))
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers)
		defer kp.Close()
		publisher = kp
	}

	engine := ledger.NewEngine(store, ledger.Config{
		MaxAmount: cfg.MaxAmount,
		IDRetries: cfg.IDRetries,
		Publisher: publisher,
		Logger:    logger,
	})

	if err := run(ctx, engine, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "bankctl:", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (interfaces.AccountStore, error) {
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store := postgres.New(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return jsonfile.Open(cfg.DataFile, logger)
}

func run(ctx context.Context, engine *ledger.Engine, command string, args []string) error {
	switch command {
	case "create":
		id, err := engine.CreateAccount(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("account created: %s\n", models.FormatAccountID(id))
		return nil

	case "deposit", "withdraw":
		if len(args) != 2 {
			return fmt.Errorf("%s takes <account> <amount>", command)
		}
		id, err := models.ParseAccountID(args[0])
		if err != nil {
			return err
		}
		amount, err := models.ParseAmount(args[1])
		if err != nil {
			return err
		}
		var balance int64
		if command == "deposit" {
			balance, err = engine.Deposit(ctx, id, amount)
		} else {
			balance, err = engine.Withdraw(ctx, id, amount)
		}
		if err != nil {
			return err
		}
		fmt.Printf("new balance: %s\n", models.FormatAmount(balance))
		return nil

	case "transfer":
		if len(args) != 3 {
			return fmt.Errorf("transfer takes <from> <to> <amount>")
		}
		from, err := models.ParseAccountID(args[0])
		if err != nil {
			return err
		}
		to, err := models.ParseAccountID(args[1])
		if err != nil {
			return fmt.Errorf("recipient: %w", err)
		}
		amount, err := models.ParseAmount(args[2])
		if err != nil {
			return err
		}
		if err := engine.Transfer(ctx, from, to, amount); err != nil {
			return err
		}
		fmt.Printf("transferred %s to %s\n", models.FormatAmount(amount), models.FormatAccountID(to))
		return nil

	case "balance":
		if len(args) != 1 {
			return fmt.Errorf("balance takes <account>")
		}
		id, err := models.ParseAccountID(args[0])
		if err != nil {
			return err
		}
		balance, err := engine.GetBalance(ctx, id)
		if err != nil {
			return err
		}
		fmt.Println(models.FormatAmount(balance))
		return nil

	case "history":
		if len(args) != 1 {
			return fmt.Errorf("history takes <account>")
		}
		id, err := models.ParseAccountID(args[0])
		if err != nil {
			return err
		}
		history, err := engine.GetHistory(ctx, id)
		if err != nil {
			return err
		}
		for _, tx := range history {
			line := fmt.Sprintf("%s  %-12s %s",
				tx.Timestamp.Format("2006-01-02 15:04:05"), tx.Kind, models.FormatAmount(tx.Amount))
			switch tx.Kind {
			case models.KindTransferOut:
				line += "  to " + models.FormatAccountID(tx.Counterparty)
			case models.KindTransferIn:
				line += "  from " + models.FormatAccountID(tx.Counterparty)
			}
			fmt.Println(line)
		}
		return nil

	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

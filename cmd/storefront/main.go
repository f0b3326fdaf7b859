package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/ceylonhub/storefront/internal/api"
	"github.com/ceylonhub/storefront/internal/cart"
	"github.com/ceylonhub/storefront/internal/catalog"
	"github.com/ceylonhub/storefront/internal/checkout"
	"github.com/ceylonhub/storefront/internal/config"
	apperrors "github.com/ceylonhub/storefront/internal/errors"
	"github.com/ceylonhub/storefront/internal/models"
	"github.com/ceylonhub/storefront/internal/orders"
	"github.com/ceylonhub/storefront/internal/session"
	"github.com/ceylonhub/storefront/internal/store"
	"github.com/ceylonhub/storefront/pkg/cloudinary"
	"github.com/joho/godotenv"
)

func main() {

	// Logger setup; stderr keeps command output on stdout clean
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("❌ Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(cfg, logger, os.Args[1:]); err != nil {

		if appErr, ok := apperrors.IsAppError(err); ok && appErr.Detail != "" {
			fmt.Fprintf(os.Stderr, "error: %s (%s)\n", appErr.Message, appErr.Detail)
		} else {
			fmt.Fprintf(os.Stderr, "error: %s\n", err.Error())
		}

		os.Exit(1)
	}
}

type app struct {
	logger   *slog.Logger
	store    store.Store
	session  *session.Manager
	cart     *cart.Cart
	catalog  *catalog.Service
	orders   *orders.Service
	checkout *checkout.Orchestrator
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {

	st := store.NewFileStore(cfg.Storage.StatePath)

	mgr := session.NewManager(st, logger)

	client, err := api.New(cfg.API, mgr)
	if err != nil {
		return nil, err
	}

	mgr.Bind(client)

	// The CLI cart survives between invocations through the state file.
	// Restore runs before Subscribe so loading does not write straight back.
	crt := cart.New()

	if raw, ok := st.Get(store.CartKey); ok {
		var items []models.CartItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			logger.Warn("Discarding unreadable saved cart", slog.String("error", err.Error()))
		} else {
			crt.Restore(items)
		}
	}

	crt.Subscribe(func(items []models.CartItem) {
		raw, err := json.Marshal(items)
		if err != nil {
			return
		}

		if err := st.Set(store.CartKey, string(raw)); err != nil {
			logger.Warn("Cart not persisted", slog.String("error", err.Error()))
		}
	})

	var up checkout.Uploader

	if cfg.Cloudinary.Enabled() {
		uploader, err := cloudinary.New(cfg.Cloudinary)
		if err != nil {
			return nil, err
		}

		up = uploader
	}

	return &app{
		logger:   logger,
		store:    st,
		session:  mgr,
		cart:     crt,
		catalog:  catalog.New(client),
		orders:   orders.New(client, up, logger),
		checkout: checkout.New(client, crt, up, logger),
	}, nil
}

func run(cfg *config.Config, logger *slog.Logger, args []string) error {

	if len(args) == 0 {
		usage()

		return fmt.Errorf("a command is required")
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Resolve any persisted token before dispatching; commands can then
	// trust Status to be either authenticated or anonymous.
	a.session.Bootstrap(ctx)

	switch args[0] {
	case "login":
		return a.cmdLogin(ctx, args[1:])
	case "register":
		return a.cmdRegister(ctx, args[1:])
	case "logout":
		return a.cmdLogout()
	case "whoami":
		return a.cmdWhoami()
	case "profile":
		return a.cmdProfile(ctx, args[1:])
	case "products":
		return a.cmdProducts(ctx, args[1:])
	case "product":
		return a.cmdProduct(ctx, args[1:])
	case "cart":
		return a.cmdCart(ctx, args[1:])
	case "checkout":
		return a.cmdCheckout(ctx, args[1:])
	case "orders":
		return a.cmdOrders(ctx)
	case "slip":
		return a.cmdSlip(ctx, args[1:])
	default:
		usage()

		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: storefront <command> [flags]

commands:
  login       -user <email|phone> -password <secret>
  register    -name <name> -email <email> -phone <phone> -password <secret>
  logout
  whoami
  profile     [-name <name>] [-phone <phone>] [-street ... -city ... -state ... -zip ... -country ...]
  products    [-search <term>] [-category <name>] [-page <n>]
  product     <id>
  cart        [show|add <id>|rm <id>|qty <id> <n>|clear]
  checkout    -method card|bank_transfer -street ... -city ... -state ... -zip ... -country ...
              [-buy-now <product-id>] [-slip <file>]
  orders
  slip        -order <id> -file <path>`)
}

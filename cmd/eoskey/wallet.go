package main

import (
	"crypto/rand"
	"fmt"
	"text/tabwriter"

	"github.com/Layr-Labs/eosio-keys-go/pkg/config"
	"github.com/Layr-Labs/eosio-keys-go/pkg/keystore"
	"github.com/Layr-Labs/eosio-keys-go/pkg/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func walletCommand() *cli.Command {
	return &cli.Command{
		Name:  "wallet",
		Usage: "Manage keys held in the local wallet",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "store",
				Usage:   "Storage backend: memory, badger or redis",
				Value:   config.StoreTypeBadger.String(),
				EnvVars: []string{config.EnvEOSKeyStoreType},
			},
			&cli.StringFlag{
				Name:    "data-path",
				Usage:   "Badger data directory",
				Value:   config.DefaultDataPath,
				EnvVars: []string{config.EnvEOSKeyDataPath},
			},
			&cli.StringFlag{
				Name:    "redis-address",
				Usage:   "Redis server address (host:port)",
				Value:   "localhost:6379",
				EnvVars: []string{config.EnvEOSKeyRedisAddress},
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Usage:   "Redis password",
				EnvVars: []string{config.EnvEOSKeyRedisPassword},
			},
			&cli.IntFlag{
				Name:    "redis-db",
				Usage:   "Redis database number (0-15)",
				EnvVars: []string{config.EnvEOSKeyRedisDB},
			},
			&cli.StringFlag{
				Name:    "redis-key-prefix",
				Usage:   "Prefix for every redis key",
				EnvVars: []string{config.EnvEOSKeyRedisKeyPrefix},
			},
			networkFlag(),
		},
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Generate a key and store it",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "label", Usage: "Free-form label"},
				},
				Action: walletCreateCommand,
			},
			{
				Name:  "import",
				Usage: "Store an existing WIF secret key",
				Flags: []cli.Flag{
					wifFlag(),
					&cli.StringFlag{Name: "label", Usage: "Free-form label"},
				},
				Action: walletImportCommand,
			},
			{
				Name:   "list",
				Usage:  "List stored keys",
				Action: walletListCommand,
			},
			{
				Name:  "default",
				Usage: "Select the key used when signing without --public-key",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "public-key", Usage: "Public key of a stored key", Required: true},
				},
				Action: walletDefaultCommand,
			},
			{
				Name:  "remove",
				Usage: "Delete a stored key",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "public-key", Usage: "Public key of a stored key", Required: true},
				},
				Action: walletRemoveCommand,
			},
			{
				Name:  "sign",
				Usage: "Sign a message, or a 32-byte digest, with a stored key",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "public-key", Usage: "Signing key; the default key when empty"},
					&cli.StringFlag{Name: "message", Usage: "Message to sign; its SHA-256 is signed"},
					&cli.StringFlag{Name: "digest", Usage: "Hex encoded 32-byte digest to sign as is"},
				},
				Action: walletSignCommand,
			},
		},
	}
}

// storeConfigFromFlags builds the keystore configuration from the wallet flags
func storeConfigFromFlags(c *cli.Context) *config.KeyStoreConfig {
	return &config.KeyStoreConfig{
		StoreType:      config.StoreType(c.String("store")),
		DataPath:       c.String("data-path"),
		RedisAddress:   c.String("redis-address"),
		RedisPassword:  c.String("redis-password"),
		RedisDB:        c.Int("redis-db"),
		RedisKeyPrefix: c.String("redis-key-prefix"),
		Network:        c.String("network"),
		Debug:          c.Bool("verbose"),
	}
}

// openWallet opens the configured keystore
func openWallet(c *cli.Context) (*keystore.KeyStore, *zap.Logger, error) {
	cfg := storeConfigFromFlags(c)

	l, err := logger.NewLogger(&logger.LoggerConfig{
		Debug:       cfg.Debug,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	ks, err := keystore.Open(cfg, l)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open wallet: %w", err)
	}
	return ks, l, nil
}

// walletCreateCommand handles the wallet create subcommand
func walletCreateCommand(c *cli.Context) error {
	ks, l, err := openWallet(c)
	if err != nil {
		return err
	}
	defer closeWallet(ks, l)

	stored, err := ks.CreateKey(c.Context, c.String("label"), rand.Reader)
	if err != nil {
		return err
	}
	printStoredKey(c, stored)
	return nil
}

// walletImportCommand handles the wallet import subcommand
func walletImportCommand(c *cli.Context) error {
	ks, l, err := openWallet(c)
	if err != nil {
		return err
	}
	defer closeWallet(ks, l)

	stored, err := ks.ImportWIF(c.Context, c.String("wif"), c.String("label"))
	if err != nil {
		return err
	}
	printStoredKey(c, stored)
	return nil
}

// walletListCommand handles the wallet list subcommand
func walletListCommand(c *cli.Context) error {
	ks, l, err := openWallet(c)
	if err != nil {
		return err
	}
	defer closeWallet(ks, l)

	stored, err := ks.ListKeys(c.Context)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DEFAULT\tPUBLIC KEY\tNETWORK\tLABEL\tKEY ID")
	for _, s := range stored {
		marker := ""
		if s.Default {
			marker = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, s.PublicKey.String(), s.Network, s.Label, s.KeyID)
	}
	return w.Flush()
}

// walletDefaultCommand handles the wallet default subcommand
func walletDefaultCommand(c *cli.Context) error {
	ks, l, err := openWallet(c)
	if err != nil {
		return err
	}
	defer closeWallet(ks, l)

	return ks.SetDefaultKey(c.Context, c.String("public-key"))
}

// walletRemoveCommand handles the wallet remove subcommand
func walletRemoveCommand(c *cli.Context) error {
	ks, l, err := openWallet(c)
	if err != nil {
		return err
	}
	defer closeWallet(ks, l)

	return ks.RemoveKey(c.Context, c.String("public-key"))
}

// walletSignCommand handles the wallet sign subcommand
func walletSignCommand(c *cli.Context) error {
	digest, err := digestFromFlags(c)
	if err != nil {
		return err
	}

	ks, l, err := openWallet(c)
	if err != nil {
		return err
	}
	defer closeWallet(ks, l)

	sig, err := ks.SignDigest(c.Context, c.String("public-key"), digest)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, sig.String())
	return nil
}

func closeWallet(ks *keystore.KeyStore, l *zap.Logger) {
	if err := ks.Close(); err != nil {
		l.Sugar().Warnw("Failed to close wallet", "error", err)
	}
	_ = l.Sync()
}

func printStoredKey(c *cli.Context, stored *keystore.StoredKey) {
	fmt.Fprintf(c.App.Writer, "Key ID: %s\n", stored.KeyID)
	fmt.Fprintf(c.App.Writer, "Public key: %s\n", stored.PublicKey.String())
	fmt.Fprintf(c.App.Writer, "Network: %s\n", stored.Network)
	if stored.Default {
		fmt.Fprintln(c.App.Writer, "Default: yes")
	}
}

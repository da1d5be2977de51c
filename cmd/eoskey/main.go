package main

import (
	"log"
	"os"

	"github.com/Layr-Labs/eosio-keys-go/pkg/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "eoskey",
		Usage: "EOSIO key, signature and action encoding tool",
		Description: `Offline tooling for EOSIO keys and binary encoding.

eoskey can:
- Generate secret keys and print them in WIF with their public keys
- Sign messages or digests and verify SIG_K1_ signatures
- Pack eosio.token::transfer actions and print their digests
- Keep keys in a local wallet backed by memory, badger or redis`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable verbose logging",
				EnvVars: []string{config.EnvEOSKeyVerbose},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate a new secret key",
				Flags: []cli.Flag{
					networkFlag(),
					&cli.BoolFlag{
						Name:  "compressed",
						Usage: "Emit the WIF with the compression marker",
					},
				},
				Action: generateCommand,
			},
			{
				Name:  "public-key",
				Usage: "Derive the public key of a WIF secret key",
				Flags: []cli.Flag{
					wifFlag(),
				},
				Action: publicKeyCommand,
			},
			{
				Name:  "sign",
				Usage: "Sign a message, or a 32-byte digest, with a WIF secret key",
				Flags: []cli.Flag{
					wifFlag(),
					&cli.StringFlag{
						Name:  "message",
						Usage: "Message to sign; its SHA-256 is signed",
					},
					&cli.StringFlag{
						Name:  "digest",
						Usage: "Hex encoded 32-byte digest to sign as is",
					},
				},
				Action: signCommand,
			},
			{
				Name:  "verify",
				Usage: "Verify a SIG_K1_ signature against a public key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "public-key",
						Usage:    "EOS... or PUB_K1_... public key",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "signature",
						Usage:    "SIG_K1_... signature",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "message",
						Usage:    "Message that was signed",
						Required: true,
					},
				},
				Action: verifyCommand,
			},
			{
				Name:  "recover",
				Usage: "Recover the public key that produced a signature",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "signature",
						Usage:    "SIG_K1_... signature",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "message",
						Usage:    "Message that was signed",
						Required: true,
					},
				},
				Action: recoverCommand,
			},
			{
				Name:  "digest",
				Usage: "Print the SHA-256 digest of a message",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "message",
						Usage:    "Message to hash",
						Required: true,
					},
				},
				Action: digestCommand,
			},
			{
				Name:  "pack-transfer",
				Usage: "Pack an eosio.token::transfer action and print its encoding and digest",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "contract",
						Usage: "Token contract account",
						Value: "eosio.token",
					},
					&cli.StringFlag{
						Name:     "from",
						Usage:    "Sending account; also the authorizing actor",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "to",
						Usage:    "Receiving account",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "quantity",
						Usage:    "Asset, e.g. \"1.0000 EOS\"",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "memo",
						Usage: "Transfer memo",
					},
					&cli.StringFlag{
						Name:  "permission",
						Usage: "Permission of the authorizing actor",
						Value: "active",
					},
				},
				Action: packTransferCommand,
			},
			walletCommand(),
		},
	}
}

func networkFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "network",
		Usage:   "Key network: mainnet or testnet",
		Value:   "mainnet",
		EnvVars: []string{config.EnvEOSKeyNetwork},
	}
}

func wifFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "wif",
		Usage:    "Secret key in Wallet Import Format",
		EnvVars:  []string{"EOSKEY_WIF"},
		Required: true,
	}
}

package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/Layr-Labs/eosio-keys-go/pkg/codec"
	"github.com/Layr-Labs/eosio-keys-go/pkg/config"
	"github.com/Layr-Labs/eosio-keys-go/pkg/keys"
	"github.com/Layr-Labs/eosio-keys-go/pkg/primitives"
	"github.com/urfave/cli/v2"
)

// generateCommand handles the generate subcommand
func generateCommand(c *cli.Context) error {
	network, err := config.ParseNetwork(c.String("network"))
	if err != nil {
		return err
	}

	generated, err := keys.GenerateSecretKey(rand.Reader)
	if err != nil {
		return err
	}
	sk, err := keys.SecretKeyFromBytes(generated.Bytes(), network, c.Bool("compressed"))
	if err != nil {
		return err
	}

	pk := sk.PublicKey()
	fmt.Fprintf(c.App.Writer, "Private key: %s\n", sk.ToWIF())
	fmt.Fprintf(c.App.Writer, "Public key: %s\n", pk.String())
	fmt.Fprintf(c.App.Writer, "Public key (K1): %s\n", pk.StringK1())
	return nil
}

// publicKeyCommand handles the public-key subcommand
func publicKeyCommand(c *cli.Context) error {
	sk, err := keys.SecretKeyFromWIF(c.String("wif"))
	if err != nil {
		return fmt.Errorf("failed to parse WIF: %w", err)
	}

	pk := sk.PublicKey()
	fmt.Fprintf(c.App.Writer, "Public key: %s\n", pk.String())
	fmt.Fprintf(c.App.Writer, "Public key (K1): %s\n", pk.StringK1())
	return nil
}

// signCommand handles the sign subcommand
func signCommand(c *cli.Context) error {
	sk, err := keys.SecretKeyFromWIF(c.String("wif"))
	if err != nil {
		return fmt.Errorf("failed to parse WIF: %w", err)
	}

	digest, err := digestFromFlags(c)
	if err != nil {
		return err
	}

	sig, err := sk.SignHash(digest)
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}
	fmt.Fprintln(c.App.Writer, sig.String())
	return nil
}

// digestFromFlags reads --digest as hex, or hashes --message
func digestFromFlags(c *cli.Context) ([]byte, error) {
	switch {
	case c.IsSet("digest") && c.IsSet("message"):
		return nil, fmt.Errorf("--digest and --message are mutually exclusive")
	case c.IsSet("digest"):
		digest, err := primitives.Checksum256FromHex(c.String("digest"))
		if err != nil {
			return nil, fmt.Errorf("invalid digest: %w", err)
		}
		return digest.Bytes(), nil
	case c.IsSet("message"):
		digest := primitives.Sha256Of([]byte(c.String("message")))
		return digest.Bytes(), nil
	default:
		return nil, fmt.Errorf("one of --message or --digest is required")
	}
}

// verifyCommand handles the verify subcommand
func verifyCommand(c *cli.Context) error {
	pk, err := keys.ParsePublicKey(c.String("public-key"))
	if err != nil {
		return fmt.Errorf("invalid public key: %w", err)
	}
	sig, err := keys.ParseSignature(c.String("signature"))
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}

	if !pk.Verify([]byte(c.String("message")), sig) {
		return cli.Exit("signature is NOT valid", 1)
	}
	fmt.Fprintln(c.App.Writer, "signature is valid")
	return nil
}

// recoverCommand handles the recover subcommand
func recoverCommand(c *cli.Context) error {
	sig, err := keys.ParseSignature(c.String("signature"))
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}

	digest := primitives.Sha256Of([]byte(c.String("message")))
	pk, err := sig.RecoverPublicKey(digest.Bytes())
	if err != nil {
		return fmt.Errorf("failed to recover public key: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Public key: %s\n", pk.String())
	return nil
}

// digestCommand handles the digest subcommand
func digestCommand(c *cli.Context) error {
	digest := primitives.Sha256Of([]byte(c.String("message")))
	fmt.Fprintln(c.App.Writer, digest.String())
	return nil
}

// packTransferCommand handles the pack-transfer subcommand
func packTransferCommand(c *cli.Context) error {
	action, err := transferAction(
		c.String("contract"),
		c.String("from"),
		c.String("permission"),
		c.String("to"),
		c.String("quantity"),
		c.String("memo"),
	)
	if err != nil {
		return err
	}

	encoded, err := codec.Pack(action)
	if err != nil {
		return fmt.Errorf("failed to pack action: %w", err)
	}
	digest, err := action.Digest()
	if err != nil {
		return fmt.Errorf("failed to digest action: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Action: %s\n", hex.EncodeToString(encoded))
	fmt.Fprintf(c.App.Writer, "Digest: %s\n", digest.String())
	return nil
}

func transferAction(contract, from, permission, to, quantity, memo string) (*primitives.Action, error) {
	auth, err := primitives.NewPermissionLevel(from, permission)
	if err != nil {
		return nil, fmt.Errorf("invalid authorization: %w", err)
	}
	transfer, err := primitives.NewActionTransferFromStrings(from, to, quantity, memo)
	if err != nil {
		return nil, fmt.Errorf("invalid transfer: %w", err)
	}
	return primitives.NewActionFromStrings(contract, "transfer", []primitives.PermissionLevel{auth}, transfer)
}

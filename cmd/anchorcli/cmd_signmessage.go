package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lightninglabs/anchorreserve/msgsign"
	"github.com/urfave/cli"
)

var signMessageCommand = cli.Command{
	Name:      "signmessage",
	Category:  "Wallet",
	Usage:     "Sign a message with a node's identity key.",
	ArgsUsage: "msg",
	Description: `
	Sign msg with the private key read from key_file. The returned
	signature uses the zbase32 encoded compact signature scheme of lnd and
	c-lightning, so nodes running those implementations can verify it.

	Positional arguments and flags can be used interchangeably but not at
	the same time!`,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "msg",
			Usage: "the message to sign",
		},
		cli.StringFlag{
			Name: "key_file",
			Usage: "path to a file holding the hex encoded " +
				"private key to sign with",
			TakesFile: true,
		},
	},
	Action: signMessage,
}

type signMessageResponse struct {
	Signature string `json:"signature"`
}

func signMessage(ctx *cli.Context) error {
	var msg []byte
	switch {
	case ctx.IsSet("msg"):
		msg = []byte(ctx.String("msg"))
	case ctx.Args().Present():
		msg = []byte(ctx.Args().First())
	default:
		return cli.ShowCommandHelp(ctx, "signmessage")
	}

	privKey, err := readPrivKeyFile(ctx.String("key_file"))
	if err != nil {
		return err
	}

	printJSON(&signMessageResponse{
		Signature: msgsign.SignMessage(privKey, msg),
	})

	return nil
}

var verifyMessageCommand = cli.Command{
	Name:      "verifymessage",
	Category:  "Wallet",
	Usage:     "Verify a message signed with the signmessage command.",
	ArgsUsage: "msg signature pubkey",
	Description: `
	Verify that the message was signed by the node whose identity key is
	pubkey. The signature must be the zbase32 encoded compact signature
	produced by the signmessage command, lnd or c-lightning.

	Positional arguments and flags can be used interchangeably but not at
	the same time!`,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "msg",
			Usage: "the message to verify",
		},
		cli.StringFlag{
			Name:  "sig",
			Usage: "the zbase32 encoded signature of the message",
		},
		cli.StringFlag{
			Name: "pubkey",
			Usage: "the hex encoded identity key of the node " +
				"that supposedly signed the message",
		},
	},
	Action: verifyMessage,
}

type verifyMessageResponse struct {
	Valid           bool   `json:"valid"`
	RecoveredPubkey string `json:"recovered_pubkey,omitempty"`
}

func verifyMessage(ctx *cli.Context) error {
	var (
		msg       []byte
		sig       string
		pubKeyHex string
	)

	args := ctx.Args()

	switch {
	case ctx.IsSet("msg"):
		msg = []byte(ctx.String("msg"))
	case args.Present():
		msg = []byte(args.First())
		args = args.Tail()
	default:
		return fmt.Errorf("msg argument missing")
	}

	switch {
	case ctx.IsSet("sig"):
		sig = ctx.String("sig")
	case args.Present():
		sig = args.First()
		args = args.Tail()
	default:
		return fmt.Errorf("signature argument missing")
	}

	switch {
	case ctx.IsSet("pubkey"):
		pubKeyHex = ctx.String("pubkey")
	case args.Present():
		pubKeyHex = args.First()
	default:
		return fmt.Errorf("pubkey argument missing")
	}

	keyBytes, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return fmt.Errorf("unable to decode pubkey: %w", err)
	}
	pubKey, err := btcec.ParsePubKey(keyBytes)
	if err != nil {
		return fmt.Errorf("invalid pubkey: %w", err)
	}

	resp := &verifyMessageResponse{
		Valid: msgsign.VerifyMessage(msg, sig, pubKey),
	}

	// Report the key the signature commits to as well, which helps track
	// down mismatches when verification fails.
	if recovered, err := msgsign.RecoverPubKey(msg, sig); err == nil {
		resp.RecoveredPubkey = hex.EncodeToString(
			recovered.SerializeCompressed(),
		)
	}

	printJSON(resp)

	return nil
}

// readPrivKeyFile reads a hex encoded private key from the file at the given
// path.
func readPrivKeyFile(path string) (*btcec.PrivateKey, error) {
	if path == "" {
		return nil, fmt.Errorf("key_file is required")
	}

	rawFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read key file: %w", err)
	}

	keyBytes, err := hex.DecodeString(
		strings.TrimSpace(string(rawFile)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to decode private key: %w", err)
	}
	if len(keyBytes) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("private key must be %d bytes, got "+
			"%d", btcec.PrivKeyBytesLen, len(keyBytes))
	}

	privKey, _ := btcec.PrivKeyFromBytes(keyBytes)

	return privKey, nil
}

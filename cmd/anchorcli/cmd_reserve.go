package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/btcsuite/btcd/wire"
	"github.com/lightninglabs/anchorreserve"
	"github.com/lightninglabs/anchorreserve/chainfee"
	"github.com/urfave/cli"
)

// contextFlags are the flags shared by all commands that evaluate a reserve
// context.
var contextFlags = []cli.Flag{
	cli.Uint64Flag{
		Name: "sat_per_vbyte",
		Usage: "the upper bound fee rate, expressed in sat/vbyte, " +
			"that fee bumping transactions are assumed to pay " +
			"(default: 50)",
	},
	cli.Uint64Flag{
		Name: "sat_per_kw",
		Usage: "the upper bound fee rate, expressed in sat/kw, that " +
			"fee bumping transactions are assumed to pay; " +
			"mutually exclusive with sat_per_vbyte",
	},
	cli.Uint64Flag{
		Name: "expected_htlcs",
		Usage: "the expected number of in-flight HTLCs per channel " +
			"at the time of closure (default: 10)",
	},
	cli.BoolFlag{
		Name: "taproot",
		Usage: "assume the wallet spends and creates P2TR outputs " +
			"when fee bumping, instead of P2WPKH",
	},
}

// reserveContext assembles a reserve context from the default values and any
// flag overrides.
func reserveContext(ctx *cli.Context) (anchorreserve.Context, error) {
	resCtx := anchorreserve.DefaultContext()

	feeFlag, err := checkNotBothSet(ctx, "sat_per_vbyte", "sat_per_kw")
	if err != nil {
		return resCtx, err
	}
	if ctx.IsSet(feeFlag) {
		rate := ctx.Uint64(feeFlag)
		if feeFlag == "sat_per_vbyte" {
			resCtx.UpperBoundFeeRate = chainfee.SatPerVByte(
				rate,
			).FeePerKWeight()
		} else {
			resCtx.UpperBoundFeeRate = chainfee.SatPerKWeight(rate)
		}
	}

	if ctx.IsSet("expected_htlcs") {
		numHtlcs := ctx.Uint64("expected_htlcs")
		if numHtlcs > math.MaxUint16 {
			return resCtx, fmt.Errorf("expected_htlcs must not "+
				"exceed %d", math.MaxUint16)
		}
		resCtx.ExpectedAcceptedHTLCs = uint16(numHtlcs)
	}

	resCtx.TaprootWallet = ctx.Bool("taproot")

	return resCtx, nil
}

var requiredReserveCommand = cli.Command{
	Name:     "requiredreserve",
	Category: "Reserve",
	Usage: "Compute the reserve a single anchor output channel " +
		"requires.",
	Description: `
	Computes the amount that needs to be held in reserve to fee bump the
	commitment transaction and the second level HTLC transactions of one
	anchor output channel, assuming the configured upper bound fee rate
	prevails at the time the channel is closed.`,
	Flags:  contextFlags,
	Action: requiredReserve,
}

type requiredReserveResponse struct {
	RequiredReserveSat    int64  `json:"required_reserve_sat"`
	FeeRateSatPerKw       int64  `json:"fee_rate_sat_per_kw"`
	ExpectedAcceptedHtlcs uint16 `json:"expected_accepted_htlcs"`
	TaprootWallet         bool   `json:"taproot_wallet"`
}

func requiredReserve(ctx *cli.Context) error {
	resCtx, err := reserveContext(ctx)
	if err != nil {
		return err
	}

	printJSON(&requiredReserveResponse{
		RequiredReserveSat: int64(
			anchorreserve.RequiredReserve(resCtx),
		),
		FeeRateSatPerKw:       int64(resCtx.UpperBoundFeeRate),
		ExpectedAcceptedHtlcs: resCtx.ExpectedAcceptedHTLCs,
		TaprootWallet:         resCtx.TaprootWallet,
	})

	return nil
}

var supportableChannelsCommand = cli.Command{
	Name:     "supportablechannels",
	Category: "Reserve",
	Usage: "Estimate how many anchor output channels a set of UTXOs " +
		"can support.",
	Description: `
	Estimates the number of anchor output channels whose reserve
	requirements are covered by the given set of wallet UTXOs. The UTXOs
	are either read from a JSON file or fetched from a wallet's RPC
	interface via listunspent.

	The utxo_file is a JSON array of objects with the fields txid, vout,
	pk_script (hex encoded) and amount_sat. UTXOs that aren't P2WPKH or
	P2TR can't be spent by fee bumping transactions and are skipped.`,
	Flags: append([]cli.Flag{
		cli.StringFlag{
			Name: "utxo_file",
			Usage: "path to a JSON file holding the wallet UTXOs " +
				"to evaluate; mutually exclusive with " +
				"rpcserver",
			TakesFile: true,
		},
		cli.StringFlag{
			Name: "rpcserver",
			Usage: "the host:port of the wallet RPC server to " +
				"fetch UTXOs from",
		},
		cli.StringFlag{
			Name:  "rpcuser",
			Usage: "the wallet RPC username",
		},
		cli.StringFlag{
			Name:  "rpcpass",
			Usage: "the wallet RPC password",
		},
		cli.StringFlag{
			Name:      "rpccert",
			Usage:     "path to the wallet RPC TLS certificate",
			TakesFile: true,
		},
		cli.BoolFlag{
			Name:  "notls",
			Usage: "connect to the wallet RPC server without TLS",
		},
		cli.Uint64Flag{
			Name: "min_confs",
			Usage: "the minimum number of confirmations a UTXO " +
				"fetched over RPC must have",
			Value: 1,
		},
		cli.Uint64Flag{
			Name: "num_channels",
			Usage: "the number of anchor output channels " +
				"currently open; when set, the output also " +
				"reports whether one more channel can be " +
				"supported",
		},
	}, contextFlags...),
	Action: supportableChannels,
}

type supportableChannelsResponse struct {
	SupportableChannels uint64 `json:"supportable_channels"`
	RequiredReserveSat  int64  `json:"required_reserve_sat"`
	NumUtxos            int    `json:"num_utxos"`
	SkippedUtxos        int    `json:"skipped_utxos"`
	CanOpenAdditional   *bool  `json:"can_open_additional,omitempty"`
}

func supportableChannels(ctx *cli.Context) error {
	resCtx, err := reserveContext(ctx)
	if err != nil {
		return err
	}

	sourceFlag, err := checkNotBothSet(ctx, "utxo_file", "rpcserver")
	if err != nil {
		return err
	}

	var (
		utxos   []anchorreserve.Utxo
		skipped int
	)
	switch {
	case sourceFlag == "utxo_file" && ctx.IsSet(sourceFlag):
		utxos, skipped, err = readUtxoFile(ctx.String("utxo_file"))

	case ctx.IsSet("rpcserver"):
		utxos, skipped, err = fetchRPCUtxos(ctx)

	default:
		return fmt.Errorf("either utxo_file or rpcserver must be set")
	}
	if err != nil {
		return err
	}

	resp := &supportableChannelsResponse{
		SupportableChannels: anchorreserve.SupportableChannels(
			resCtx, utxos,
		),
		RequiredReserveSat: int64(anchorreserve.RequiredReserve(resCtx)),
		NumUtxos:           len(utxos),
		SkippedUtxos:       skipped,
	}
	if ctx.IsSet("num_channels") {
		canOpen := resp.SupportableChannels > ctx.Uint64("num_channels")
		resp.CanOpenAdditional = &canOpen
	}

	printJSON(resp)

	return nil
}

// utxoJSON is the on-disk description of a single wallet UTXO.
type utxoJSON struct {
	TxID      string `json:"txid"`
	Vout      uint32 `json:"vout"`
	PkScript  string `json:"pk_script"`
	AmountSat int64  `json:"amount_sat"`
}

// readUtxoFile loads the set of wallet UTXOs from the JSON file at the given
// path. UTXOs with an unsupported output script are skipped, with their
// number returned alongside the usable set.
func readUtxoFile(path string) ([]anchorreserve.Utxo, int, error) {
	rawFile, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("unable to read utxo file: %w", err)
	}

	var entries []utxoJSON
	if err := json.Unmarshal(rawFile, &entries); err != nil {
		return nil, 0, fmt.Errorf("unable to decode utxo file: %w",
			err)
	}

	utxos := make([]anchorreserve.Utxo, 0, len(entries))
	var skipped int
	for _, entry := range entries {
		txid, err := chainhash.NewHashFromStr(entry.TxID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid txid %v: %w",
				entry.TxID, err)
		}

		pkScript, err := hex.DecodeString(entry.PkScript)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid pk_script for "+
				"%v:%d: %w", entry.TxID, entry.Vout, err)
		}

		op := wire.OutPoint{Hash: *txid, Index: entry.Vout}
		utxo, err := anchorreserve.NewUtxo(
			op, btcutil.Amount(entry.AmountSat), pkScript,
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping utxo %v: %v\n", op,
				err)
			skipped++

			continue
		}

		utxos = append(utxos, utxo)
	}

	return utxos, skipped, nil
}

// fetchRPCUtxos fetches the set of spendable wallet UTXOs through the wallet
// RPC interface, using the connection details given on the command line.
func fetchRPCUtxos(ctx *cli.Context) ([]anchorreserve.Utxo, int, error) {
	rpcConfig := rpcclient.ConnConfig{
		Host:         ctx.String("rpcserver"),
		User:         ctx.String("rpcuser"),
		Pass:         ctx.String("rpcpass"),
		HTTPPostMode: true,
		DisableTLS:   ctx.Bool("notls"),
	}
	if !rpcConfig.DisableTLS {
		rpcCert, err := os.ReadFile(ctx.String("rpccert"))
		if err != nil {
			return nil, 0, fmt.Errorf("unable to read TLS "+
				"certificate: %w", err)
		}
		rpcConfig.Certificates = rpcCert
	}

	client, err := rpcclient.New(&rpcConfig, nil)
	if err != nil {
		return nil, 0, err
	}
	defer client.Shutdown()

	unspent, err := client.ListUnspentMin(int(ctx.Uint64("min_confs")))
	if err != nil {
		return nil, 0, fmt.Errorf("unable to list unspent: %w", err)
	}

	utxos := make([]anchorreserve.Utxo, 0, len(unspent))
	var skipped int
	for _, entry := range unspent {
		if !entry.Spendable {
			skipped++
			continue
		}

		txid, err := chainhash.NewHashFromStr(entry.TxID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid txid %v: %w",
				entry.TxID, err)
		}

		pkScript, err := hex.DecodeString(entry.ScriptPubKey)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid script for "+
				"%v:%d: %w", entry.TxID, entry.Vout, err)
		}

		// The RPC interface reports amounts in BTC.
		amount, err := btcutil.NewAmount(entry.Amount)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid amount for "+
				"%v:%d: %w", entry.TxID, entry.Vout, err)
		}

		op := wire.OutPoint{Hash: *txid, Index: entry.Vout}
		utxo, err := anchorreserve.NewUtxo(op, amount, pkScript)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping utxo %v: %v\n", op,
				err)
			skipped++

			continue
		}

		utxos = append(utxos, utxo)
	}

	return utxos, skipped, nil
}

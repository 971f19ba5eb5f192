package main

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/lightninglabs/anchorreserve"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

// newReserveContext builds a cli.Context with the reserve flags parsed.
func newReserveContext(t *testing.T, args []string) *cli.Context {
	t.Helper()

	flagSet := flag.NewFlagSet("reserve", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.Uint64("sat_per_vbyte", 0, "")
	flagSet.Uint64("sat_per_kw", 0, "")
	flagSet.Uint64("expected_htlcs", 0, "")
	flagSet.Bool("taproot", false, "")

	err := flagSet.Parse(args)
	require.NoError(t, err)

	app := cli.NewApp()

	return cli.NewContext(app, flagSet, nil)
}

// TestReserveContext checks that the flag overrides are applied on top of
// the default reserve context.
func TestReserveContext(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		args      []string
		expectErr string
		expect    anchorreserve.Context
	}{{
		name:   "defaults",
		expect: anchorreserve.DefaultContext(),
	}, {
		name: "fee rate in sat per vbyte",
		args: []string{"--sat_per_vbyte", "10"},
		expect: anchorreserve.Context{
			UpperBoundFeeRate:     2500,
			ExpectedAcceptedHTLCs: 10,
		},
	}, {
		name: "fee rate in sat per kw",
		args: []string{"--sat_per_kw", "300"},
		expect: anchorreserve.Context{
			UpperBoundFeeRate:     300,
			ExpectedAcceptedHTLCs: 10,
		},
	}, {
		name: "conflicting fee rates",
		args: []string{
			"--sat_per_vbyte", "10", "--sat_per_kw", "300",
		},
		expectErr: "but not both",
	}, {
		name: "htlc and wallet overrides",
		args: []string{"--expected_htlcs", "4", "--taproot"},
		expect: anchorreserve.Context{
			UpperBoundFeeRate:     anchorreserve.DefaultUpperBoundFeeRate,
			ExpectedAcceptedHTLCs: 4,
			TaprootWallet:         true,
		},
	}, {
		name:      "htlc count out of range",
		args:      []string{"--expected_htlcs", "65536"},
		expectErr: "must not exceed",
	}}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			resCtx, err := reserveContext(
				newReserveContext(t, tc.args),
			)
			if tc.expectErr != "" {
				require.ErrorContains(t, err, tc.expectErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tc.expect, resCtx)
		})
	}
}

// TestReadUtxoFile checks that a UTXO file is parsed in order and that
// entries with unsupported output scripts are skipped rather than failing
// the whole file.
func TestReadUtxoFile(t *testing.T) {
	t.Parallel()

	const utxoFile = `[{
		"txid": "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		"vout": 0,
		"pk_script": "0014000102030405060708090a0b0c0d0e0f10111213",
		"amount_sat": 100000
	}, {
		"txid": "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		"vout": 1,
		"pk_script": "76a914000102030405060708090a0b0c0d0e0f1011121388ac",
		"amount_sat": 50000
	}, {
		"txid": "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		"vout": 2,
		"pk_script": "5120000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		"amount_sat": 200000
	}]`

	path := filepath.Join(t.TempDir(), "utxos.json")
	require.NoError(t, os.WriteFile(path, []byte(utxoFile), 0o644))

	utxos, skipped, err := readUtxoFile(path)
	require.NoError(t, err)

	// The P2PKH entry can't be fee bumped from and is skipped.
	require.Len(t, utxos, 2)
	require.Equal(t, 1, skipped)

	require.Equal(t, btcutil.Amount(100_000), utxos[0].Value)
	require.Equal(
		t, anchorreserve.P2WPKHSatisfactionWeight,
		utxos[0].SatisfactionWeight,
	)

	require.Equal(t, btcutil.Amount(200_000), utxos[1].Value)
	require.EqualValues(t, 2, utxos[1].OutPoint.Index)
	require.Equal(
		t, anchorreserve.P2TRSatisfactionWeight,
		utxos[1].SatisfactionWeight,
	)
}

// TestReadUtxoFileErrors checks the failure modes of the UTXO file loader.
func TestReadUtxoFileErrors(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	_, _, err := readUtxoFile(filepath.Join(tempDir, "missing.json"))
	require.ErrorContains(t, err, "unable to read utxo file")

	badJSON := filepath.Join(tempDir, "bad.json")
	require.NoError(t, os.WriteFile(badJSON, []byte("{"), 0o644))
	_, _, err = readUtxoFile(badJSON)
	require.ErrorContains(t, err, "unable to decode utxo file")

	badTxid := filepath.Join(tempDir, "badtxid.json")
	require.NoError(t, os.WriteFile(badTxid, []byte(`[{
		"txid": "nope",
		"vout": 0,
		"pk_script": "0014000102030405060708090a0b0c0d0e0f10111213",
		"amount_sat": 1
	}]`), 0o644))
	_, _, err = readUtxoFile(badTxid)
	require.ErrorContains(t, err, "invalid txid")
}

// Proof Suite CLI
// Encodes, decodes, and verifies proof envelopes against the V1 registry,
// and can replay the suite's canonical test vectors for inspection.

package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/certen/proofsuite/internal/testvectors"
	"github.com/certen/proofsuite/pkg/codec"
	"github.com/certen/proofsuite/pkg/engine"
	"github.com/certen/proofsuite/pkg/proofsuite"
	"github.com/certen/proofsuite/pkg/verify"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "decode":
		err = runDecode(os.Args[2:])
	case "vectors":
		err = runVectors(os.Args[2:])
	case "verify-vector":
		err = runVerifyVector(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: proofsuite-cli <decode|vectors|verify-vector> [flags]")
}

// runDecode parses a hex-encoded canonical envelope given with -hex and
// prints its debug rendering.
func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	inHex := fs.String("hex", "", "hex-encoded canonical envelope bytes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inHex == "" {
		return fmt.Errorf("-hex is required")
	}
	data, err := hex.DecodeString(*inHex)
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}
	env, err := codec.Decode(data)
	if err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	fmt.Println(codec.DebugRender(env))
	return nil
}

// runVectors lists the names of the canonical test vectors, or prints the
// hex-encoded envelope for one named vector with -name.
func runVectors(args []string) error {
	fs := flag.NewFlagSet("vectors", flag.ExitOnError)
	name := fs.String("name", "", "print the hex-encoded envelope for one vector")
	if err := fs.Parse(args); err != nil {
		return err
	}

	all := allVectors()
	if *name == "" {
		for _, v := range all {
			fmt.Println(v.Name)
		}
		return nil
	}
	for _, v := range all {
		if v.Name == *name {
			fmt.Println(hex.EncodeToString(codec.Encode(v.Envelope)))
			return nil
		}
	}
	return fmt.Errorf("no such vector %q", *name)
}

// runVerifyVector runs the full verification procedure against one named
// canonical vector and prints the result.
func runVerifyVector(args []string) error {
	fs := flag.NewFlagSet("verify-vector", flag.ExitOnError)
	name := fs.String("name", "", "vector name (see `vectors` subcommand)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("-name is required")
	}

	// Each invocation gets a correlation ID, the same way an HTTP handler
	// tags each proof/batch request with a uuid for log correlation —
	// here there is no request to parse one from, so the CLI mints its
	// own per run.
	runID := uuid.New()
	fmt.Printf("run: %s\n", runID)

	switch *name {
	case "storage_proof_stale_epoch":
		v, allowed := testvectors.StorageProofStaleEpoch()
		eng := engine.New(v.Registry, verify.VerifyContext{})
		result, err := eng.VerifyEnvelope(v.Envelope, engine.WithAllowedStorageEpochs(allowed))
		return printResult(result, err)
	case "oversize_key_rejection":
		v, counter := testvectors.OversizeKeyRejection()
		eng := engine.New(v.Registry, verify.VerifyContext{})
		result, err := eng.VerifyEnvelope(v.Envelope)
		fmt.Printf("verifier invoked: %v\n", counter.Calls > 0)
		return printResult(result, err)
	case "signature_pop_happy_path":
		v := testvectors.SignaturePopHappyPath()
		eng := engine.New(v.Registry, verify.VerifyContext{})
		result, err := eng.VerifyIdentityBinding(v.Envelope, v.DID)
		return printResult(result, err)
	default:
		for _, v := range allVectors() {
			if v.Name == *name {
				eng := engine.New(v.Registry, verify.VerifyContext{})
				result, err := eng.VerifyEnvelope(v.Envelope)
				return printResult(result, err)
			}
		}
		return fmt.Errorf("no such vector %q", *name)
	}
}

func printResult(result *verify.Result, err error) error {
	if err != nil {
		var pe *proofsuite.ProofError
		if asProofError(err, &pe) {
			fmt.Printf("rejected: kind=%s msg=%s\n", pe.Kind, pe.Msg)
			return nil
		}
		return err
	}
	fmt.Printf("valid: %v\n", result.Valid)
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", w.String())
	}
	return nil
}

func asProofError(err error, target **proofsuite.ProofError) bool {
	pe, ok := err.(*proofsuite.ProofError)
	if ok {
		*target = pe
	}
	return ok
}

func allVectors() []*testvectors.Vector {
	v4, _ := testvectors.StorageProofStaleEpoch()
	v6, _ := testvectors.OversizeKeyRejection()
	return []*testvectors.Vector{
		testvectors.SignaturePopHappyPath(),
		testvectors.VersionMismatch(),
		testvectors.UnknownTypeAfterDeserialization(),
		v4,
		testvectors.CrossTypeConfusion(),
		v6,
	}
}

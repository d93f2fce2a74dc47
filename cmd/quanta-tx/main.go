// quanta-tx inspects and validates canonical transaction bytes: decode a
// buffer, compute its ID, run consensus validation, or convert between the
// canonical and JSON forms.
package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"quanta.dev/vm/crypto"
	"quanta.dev/vm/tx"
)

type globalOptions struct {
	Input   string `short:"i" long:"input" default:"-" description:"input file, - for stdin"`
	Verbose bool   `short:"v" long:"verbose" description:"debug logging"`
}

var (
	opts   globalOptions
	logger *zap.Logger
)

// readInput loads the transaction bytes. Hex input (with or without a 0x
// prefix) is accepted alongside raw binary.
func readInput() ([]byte, error) {
	var raw []byte
	var err error
	if opts.Input == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(opts.Input)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	trimmed := strings.TrimSpace(string(raw))
	hexBody := strings.TrimPrefix(trimmed, "0x")
	if decoded, hexErr := hex.DecodeString(hexBody); hexErr == nil && len(decoded) > 0 {
		return decoded, nil
	}
	return raw, nil
}

func decodeInput() (tx.Transaction, []byte, error) {
	raw, err := readInput()
	if err != nil {
		return nil, nil, err
	}
	t, err := tx.Decode(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	return t, raw, nil
}

type decodeCommand struct{}

func (*decodeCommand) Execute([]string) error {
	t, raw, err := decodeInput()
	if err != nil {
		return err
	}
	fmt.Printf("variant:       %s\n", variantName(t))
	fmt.Printf("encoded bytes: %d\n", len(raw))
	fmt.Printf("metered bytes: %d\n", t.MeteredBytes())
	fmt.Printf("inputs:        %d\n", len(t.Inputs()))
	fmt.Printf("outputs:       %d\n", len(t.Outputs()))
	fmt.Printf("witnesses:     %d\n", len(t.Witnesses()))
	fmt.Printf("id:            %s\n", tx.ComputeID(crypto.Native{}, t))
	return nil
}

type idCommand struct{}

func (*idCommand) Execute([]string) error {
	t, _, err := decodeInput()
	if err != nil {
		return err
	}
	fmt.Println(tx.ComputeID(crypto.Native{}, t))
	return nil
}

type validateCommand struct {
	Height         uint64 `long:"height" description:"block height to validate against" default:"0"`
	SkipSignatures bool   `long:"skip-signatures" description:"skip signature recovery"`
}

func (c *validateCommand) Execute([]string) error {
	t, _, err := decodeInput()
	if err != nil {
		return err
	}
	p := crypto.Native{}
	params := tx.DefaultParameters()

	var checked *tx.Checked
	if c.SkipSignatures {
		checked, err = tx.CheckUnsigned(p, t, c.Height, params)
	} else {
		checked, err = tx.Check(p, t, c.Height, params)
	}
	if err != nil {
		return fmt.Errorf("invalid: %w", err)
	}
	fmt.Printf("valid\nid:      %s\nmin fee: %d\nmax fee: %d\n",
		checked.ID(), checked.Fee().MinFee(), checked.Fee().MaxFee())
	return nil
}

type jsonCommand struct{}

func (*jsonCommand) Execute([]string) error {
	t, _, err := decodeInput()
	if err != nil {
		return err
	}
	out, err := tx.ToJSON(t)
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

type encodeCommand struct{}

func (*encodeCommand) Execute([]string) error {
	raw, err := readInput()
	if err != nil {
		return err
	}
	t, err := tx.FromJSON(raw)
	if err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	fmt.Println(hex.EncodeToString(tx.Encode(t)))
	return nil
}

func variantName(t tx.Transaction) string {
	switch t.(type) {
	case *tx.Script:
		return "script"
	case *tx.Create:
		return "create"
	default:
		return "mint"
	}
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = false

	mustAdd := func(name, short, long string, cmd interface{}) {
		if _, err := parser.AddCommand(name, short, long, cmd); err != nil {
			panic(err)
		}
	}
	mustAdd("decode", "Decode a transaction", "Decode canonical bytes and print a summary.", &decodeCommand{})
	mustAdd("id", "Compute the transaction ID", "Decode canonical bytes and print the transaction ID.", &idCommand{})
	mustAdd("validate", "Run consensus validation", "Decode canonical bytes and run the full validation pipeline.", &validateCommand{})
	mustAdd("json", "Convert to JSON", "Decode canonical bytes and print the JSON interchange form.", &jsonCommand{})
	mustAdd("encode", "Convert JSON to canonical bytes", "Parse the JSON interchange form and print canonical hex.", &encodeCommand{})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		initLogger()
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func initLogger() {
	cfg := zap.NewProductionConfig()
	if opts.Verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	var err error
	if logger, err = cfg.Build(); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
}

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"inheritance-engine/internal/casefile"
	"inheritance-engine/internal/config"
	"inheritance-engine/internal/engine"
	"inheritance-engine/internal/familytree"
	"inheritance-engine/internal/logging"
	"inheritance-engine/internal/model"
	"inheritance-engine/internal/report"
	"inheritance-engine/internal/wizard"
)

// command describes a CLI subcommand.
type command struct {
	name  string
	short string
	usage string
	long  string
	run   func(args []string) error
}

var commands = []command{
	{
		name:  "calculate",
		short: "Calculate inheritance shares for a case file",
		usage: "inheritance calculate <case.yaml|case.json> [-format text|markdown|html|json]",
		long: `Load a case file, calculate every heir's share and print the report.

Case files are YAML or JSON. Heirs may omit id, gender, is_alive and count.
`,
		run: runCalculate,
	},
	{
		name:  "validate",
		short: "Check a case file without calculating",
		usage: "inheritance validate <case.yaml|case.json>",
		long: `Run the input checks on a case file and list every problem found.

Exits non-zero when the case is invalid.
`,
		run: runValidate,
	},
	{
		name:  "import-gedcom",
		short: "Build a case file from a GEDCOM family tree",
		usage: "inheritance import-gedcom <tree.ged> <xref> [-law islam|perdata] [-out case.yaml]",
		long: `Read a GEDCOM file and derive the heirs of the individual <xref>.

Estate amounts are left at zero; edit the written case before calculating.
Without -out the case is printed as YAML.
`,
		run: runImportGedcom,
	},
	{
		name:  "wizard",
		short: "Enter a case step by step in the terminal",
		usage: "inheritance wizard [-save case.yaml]",
		long: `Start the interactive five-step calculator: law system, deceased, heirs,
estate and result. With -save the entered case is written to a case file.
`,
		run: runWizard,
	},
}

var (
	stdout io.Writer = os.Stdout
	calc             = engine.New(engine.Options{})
	logger           = zap.NewNop()
	wizardRun        = wizard.Run
)

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "inheritance - kalkulator pembagian waris (Islam dan Perdata)\n\n")
	fmt.Fprintf(w, "Usage:\n  inheritance <command> [arguments]\n\n")
	fmt.Fprintf(w, "Commands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-14s %s\n", cmd.name, cmd.short)
	}
	fmt.Fprintf(w, "\nRun 'inheritance help <command>' for details on a specific command.\n")
}

func printCommandHelp(w io.Writer, name string) {
	for _, cmd := range commands {
		if cmd.name == name {
			fmt.Fprintf(w, "Usage: %s\n\n%s", cmd.usage, cmd.long)
			return
		}
	}
	fmt.Fprintf(w, "inheritance: unknown command %q\n\nRun 'inheritance help' for usage.\n", name)
}

func dispatch(args []string) error {
	if len(args) == 0 || args[0] == "--help" || args[0] == "-h" {
		printUsage(stdout)
		return nil
	}
	if args[0] == "help" {
		if len(args) >= 2 {
			printCommandHelp(stdout, args[1])
		} else {
			printUsage(stdout)
		}
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.run(args[1:])
		}
	}
	return fmt.Errorf("unknown command %q\n\nRun 'inheritance help' for usage.", args[0])
}

// ---------------------------------------------------------------------------
// calculate
// ---------------------------------------------------------------------------

func runCalculate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: inheritance calculate <case> [-format text|markdown|html|json]")
	}
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	format := fs.String("format", string(report.Text), "report format")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	f, err := report.ParseFormat(*format)
	if err != nil {
		return err
	}

	in, err := casefile.Load(args[0])
	if err != nil {
		return err
	}
	res, err := calc.Calculate(in)
	if err != nil {
		return err
	}
	logger.Debug("calculated", zap.String("case", args[0]), zap.Int("shares", len(res.Shares)), zap.Int64("residue", res.Residue))
	return report.Render(stdout, res, f)
}

// ---------------------------------------------------------------------------
// validate
// ---------------------------------------------------------------------------

func runValidate(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: inheritance validate <case>")
	}
	in, err := casefile.Load(args[0])
	if err != nil {
		return err
	}
	errs := calc.Validate(in)
	if len(errs) == 0 {
		fmt.Fprintln(stdout, "Data valid.")
		return nil
	}
	for _, e := range errs {
		fmt.Fprintln(stdout, "- "+e)
	}
	return fmt.Errorf("%s: %d masalah ditemukan", args[0], len(errs))
}

// ---------------------------------------------------------------------------
// import-gedcom
// ---------------------------------------------------------------------------

func runImportGedcom(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: inheritance import-gedcom <tree.ged> <xref> [-law islam|perdata] [-out case.yaml]")
	}
	fs := flag.NewFlagSet("import-gedcom", flag.ContinueOnError)
	law := fs.String("law", string(model.LawIslam), "law system of the case")
	out := fs.String("out", "", "case file to write")
	if err := fs.Parse(args[2:]); err != nil {
		return err
	}
	if !model.LawSystem(*law).Valid() {
		return fmt.Errorf("unknown law system %q", *law)
	}

	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	tree, err := familytree.Decode(file)
	if err != nil {
		return err
	}
	in, notes, err := tree.Import(args[1], model.LawSystem(*law))
	if err != nil {
		return err
	}
	for _, n := range notes {
		logger.Warn("gedcom import", zap.String("note", n))
	}

	if *out != "" {
		if err := casefile.Save(*out, in); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%d ahli waris ditulis ke %s\n", len(in.Heirs), *out)
		return nil
	}
	data, err := casefile.Encode(in, casefile.YAML)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

// ---------------------------------------------------------------------------
// wizard
// ---------------------------------------------------------------------------

func runWizard(args []string) error {
	fs := flag.NewFlagSet("wizard", flag.ContinueOnError)
	save := fs.String("save", "", "case file to write")
	if err := fs.Parse(args); err != nil {
		return err
	}
	res, err := wizardRun(calc)
	if err != nil {
		return err
	}
	if *save != "" {
		if err := casefile.Save(*save, res.Input); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Kasus disimpan ke %s\n", *save)
	}
	return nil
}

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if l, err := logging.NewLogger(cfg.LogLevel); err == nil {
		logger = l
		defer logger.Sync()
	}
	calc = engine.New(cfg.EngineOptions())

	if err := dispatch(os.Args[1:]); err != nil {
		logger.Error("command failed", zap.Strings("args", os.Args[1:]), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
}

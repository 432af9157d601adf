// Command merge runs the module importer over built-in scenarios and
// shows what an import would change: new types, in-place merges, renamed
// members, and diagnostics.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/clr-importer/importer"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func main() {
	var (
		scenarioName = flag.String("scenario", "recompile", "Scenario to run (see -list)")
		listOnly     = flag.Bool("list", false, "List scenarios and exit")
		exportPath   = flag.String("export", "", "Write a msgpack report to this file")
		interactive  = flag.Bool("i", false, "Browse the result interactively")
		verbose      = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *listOnly {
		for _, s := range scenarios {
			fmt.Printf("  %-16s %s\n", s.Name, dimStyle.Render(s.Description))
		}
		return
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "logger: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync()
		importer.SetLogger(log)
	}

	s, ok := findScenario(*scenarioName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown scenario %q, try -list\n", *scenarioName)
		os.Exit(1)
	}

	res, err := runScenario(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		if res != nil {
			for _, d := range res.Diagnostics {
				fmt.Fprintf(os.Stderr, "  %s\n", d)
			}
		}
		os.Exit(1)
	}

	if *exportPath != "" {
		if err := exportReport(*exportPath, res); err != nil {
			fmt.Fprintf(os.Stderr, "export: %v\n", err)
			os.Exit(1)
		}
	}

	if *interactive && term.IsTerminal(int(os.Stdout.Fd())) {
		if err := runBrowser(s.Name, res); err != nil {
			fmt.Fprintf(os.Stderr, "browser: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printResult(s, res)
}

func exportReport(path string, res *importer.ImportResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := msgpack.NewEncoder(f)
	return enc.Encode(res.Summarize())
}

func printResult(s Scenario, res *importer.ImportResult) {
	fmt.Println(headerStyle.Render("import: " + s.Name))
	fmt.Println(dimStyle.Render(s.Description))
	fmt.Println()

	rep := res.Summarize()

	if len(rep.NewTypes) == 0 && len(rep.MergedTypes) == 0 {
		fmt.Println(dimStyle.Render("  no changes"))
	}

	for _, nt := range rep.NewTypes {
		tag := ""
		if nt.Renamed {
			tag = warnStyle.Render(" (renamed)")
		}
		fmt.Printf("  %s %s%s %s\n", okStyle.Render("new"), nt.Name, tag,
			dimStyle.Render(fmt.Sprintf("%d fields, %d methods", nt.Fields, nt.Methods)))
	}

	for _, mt := range rep.MergedTypes {
		fmt.Printf("  %s %s\n", okStyle.Render("merge"), mt.Name)
		printMembers("fields", mt.NewFields)
		printMembers("methods", mt.NewMethods)
		printMembers("properties", mt.NewProperties)
		printMembers("events", mt.NewEvents)
		printMembers("nested types", mt.NewNested)
		printMembers("edited bodies", mt.EditedMethods)
	}

	if len(rep.Diagnostics) > 0 {
		fmt.Println()
		for _, d := range rep.Diagnostics {
			style := errStyle
			if d.Severity == "warning" {
				style = warnStyle
			}
			fmt.Printf("  %s %s\n", style.Render(d.Severity+" "+d.Code), d.Message)
		}
	}
}

func printMembers(label string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Printf("    %s %s\n", dimStyle.Render("+ "+label+":"), strings.Join(names, ", "))
}

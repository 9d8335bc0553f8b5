package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const appVersion = "1.2.0"

// ANSI escapes for the argument-error and help surfaces.
const (
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
	ansiBold   = "\x1b[1m"
	ansiReset  = "\x1b[0m"
)

// colorize wraps s in an ANSI escape when stdout is a terminal, so piped
// output stays clean.
func colorize(color, s string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return s
	}
	return color + s + ansiReset
}

// PrintArgError reports an argument-parsing problem the way the help page
// is shown: on stdout, red on terminals.
func PrintArgError(err error) {
	fmt.Println(colorize(ansiRed, fmt.Sprintf("Problem parsing arguments: %v", err)))
}

// NewApp builds the command-line application.
func NewApp() *cli.App {
	cli.VersionPrinter = func(cCtx *cli.Context) {
		fmt.Printf("%s %s\n", cCtx.App.Name, cCtx.App.Version)
	}

	return &cli.App{
		Name:                  "heictojpeg",
		Usage:                 "convert HEIC files to JPEG, preserving EXIF metadata",
		Version:               appVersion,
		ArgsUsage:             "[PATH]",
		HideHelpCommand:       true,
		CustomAppHelpTemplate: helpTemplate(),
		OnUsageError: func(cCtx *cli.Context, err error, isSubcommand bool) error {
			return err
		},
		Action: run,
	}
}

// helpTemplate renders the sectioned help page, colored on terminals.
func helpTemplate() string {
	header := func(s string) string { return colorize(ansiBold+ansiYellow, s) }
	cmd := func(s string) string { return colorize(ansiGreen, s) }
	note := func(s string) string { return colorize(ansiCyan, s) }

	return fmt.Sprintf(`📸 HEIC to JPEG converter - https://github.com/lowcarbdev/heictojpeg

%s
    %s

%s
    %s

     PATH: path to a directory of HEIC files or a single HEIC file
           (defaults to current directory if omitted)

     Converted JPEG files are saved to a 'jpegs/' subdirectory
     alongside the source files. EXIF data is preserved.

%s
    %s    Print version information
    %s       Print help information

%s
    %s
    %s

    %s
    %s

    %s
    %s
`,
		header("VERSION:"), cmd("{{.Version}}"),
		header("USAGE:"), cmd("heictojpeg [PATH]"),
		header("OPTIONS:"), cmd("-v, --version"), cmd("-h, --help"),
		header("EXAMPLES:"),
		note("# Convert all HEIC files in current directory"), cmd("heictojpeg"),
		note("# Convert all HEIC files in a specific directory"), cmd("heictojpeg ~/Photos"),
		note("# Convert a single file"), cmd("heictojpeg photo.heic"))
}

// run validates the arguments and starts a conversion over the given path,
// defaulting to the current directory.
func run(cCtx *cli.Context) error {
	if cCtx.NArg() > 1 {
		return errors.New("too many arguments, expecting: heictojpeg [path]")
	}
	inputPath := cCtx.Args().First()
	if inputPath == "" {
		inputPath = "."
	}
	return runConversion(inputPath)
}

// runConversion drives the whole batch: resolve inputs, convert them on a
// worker pool, write the summary log. Per-file failures never fail the
// run; only argument problems do.
func runConversion(inputPath string) error {
	fmt.Println("Starting the program...")

	if !heifSupported {
		slog.Warn("this build cannot decode HEIC, conversions will fail", "hint", "rebuild without the noheif tag")
	}

	baseDir, heicFiles, err := resolveInput(inputPath)
	if err != nil {
		return err
	}

	if len(heicFiles) == 0 {
		fmt.Println("No HEIC files found.")
		return nil
	}

	fmt.Printf("Found %d HEIC file(s)\n", len(heicFiles))

	jpegDir, err := ensureJPEGDir(baseDir)
	if err != nil {
		slog.Error("cannot create the output directory", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	results := processFiles(heicFiles, jpegDir)
	duration := time.Since(start)

	fmt.Println("Saving logs to logs.txt...")
	if err := saveLogs(jpegDir, baseDir, results, duration); err != nil {
		slog.Error("cannot save the conversion log", "error", err)
		os.Exit(1)
	}

	successCount := 0
	for _, res := range results {
		if res.err == nil {
			successCount++
		}
	}

	fmt.Printf("\nProgram completed! %d converted, %d errors, took %s\n",
		successCount, len(results)-successCount, duration)

	return nil
}

// resolveInput turns the input argument into a base directory plus the
// files to convert. A directory contributes every .heic child
// (case-insensitive, sorted by path); a single file is converted as given.
func resolveInput(inputPath string) (string, []string, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return "", nil, err
	}

	if !info.IsDir() {
		return filepath.Dir(inputPath), []string{inputPath}, nil
	}

	files, err := heicFilesIn(inputPath)
	if err != nil {
		return "", nil, err
	}
	return inputPath, files, nil
}

// heicFilesIn lists the .heic files directly inside dir, sorted by path.
func heicFilesIn(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".heic") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// ensureJPEGDir creates the jpegs/ output directory under baseDir.
func ensureJPEGDir(baseDir string) (string, error) {
	jpegDir := filepath.Join(baseDir, "jpegs")
	if err := os.MkdirAll(jpegDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create jpegs directory: %w", err)
	}
	return jpegDir, nil
}

// processFiles converts every input on a worker pool sized to the CPU
// count. Each worker records its own result, indexed by input position,
// so the pool itself never fails and the output order is stable.
func processFiles(heicFiles []string, jpegDir string) []conversionResult {
	results := make([]conversionResult, len(heicFiles))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, heicPath := range heicFiles {
		g.Go(func() error {
			fileName := filepath.Base(heicPath)
			fmt.Printf("Processing file: %s\n", fileName)

			err := Convert(heicPath, jpegOutputPath(jpegDir, heicPath))
			if err != nil {
				slog.Warn("conversion failed", "file", fileName, "error", err)
			}
			results[i] = conversionResult{fileName: fileName, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

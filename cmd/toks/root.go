package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"toks/internal/chunk"
	"toks/internal/config"
	"toks/internal/fileset"
	"toks/internal/index"
	"toks/internal/langs"
	"toks/internal/logging"
	"toks/internal/paths"
	"toks/internal/pipeline"
	"toks/internal/report"
	"toks/internal/tokserr"
	"toks/internal/version"
)

var (
	listFileFlag  string
	indexPathFlag string
	outputFlag    string
	langFlag      string
	typesFlag     []string
	dumpFlag      bool
	severityFlag  string
	showSevFlag   bool
	idFlag        string
	refsFlag      bool
	defsFlag      bool
	declsFlag     bool
	versionFlag   bool
	altHelpFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "toks [options] [files ...]",
	Short: "toks - source-code cross-reference indexer",
	Long: `toks parses C-family source files (C, C++, C#, D, Java, Objective-C,
Pawn, Vala, ECMAScript) into classified, scoped token streams and persists
the result to a relational index keyed by file digest. A later invocation
can query the index for a given identifier with --id.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&listFileFlag, "list-file", "F", "", "read list of source files (one per line; '-' = stdin; '#' comments)")
	flags.StringVarP(&indexPathFlag, "index", "i", "", "index path (default: TOKS)")
	flags.StringVarP(&outputFlag, "output", "o", "", "redirect standard output")
	flags.StringVarP(&langFlag, "lang", "l", "", "force language: C|CPP|D|CS|JAVA|PAWN|OC|OC+|VALA|ECMA")
	flags.StringArrayVarP(&typesFlag, "types", "t", nil, "load extra type names (one per line); repeatable")
	flags.BoolVarP(&dumpFlag, "dump", "d", false, "dump all tokens after parsing")
	flags.StringVarP(&severityFlag, "log-severity", "L", "", `log severity mask (comma-separated ranges, "A" = all)`)
	flags.BoolVarP(&showSevFlag, "show-severity", "s", false, "show severity in log lines")
	flags.StringVar(&idFlag, "id", "", "query identifier (supports ? and * wildcards)")
	flags.BoolVar(&refsFlag, "refs", false, "restrict query to references")
	flags.BoolVar(&defsFlag, "defs", false, "restrict query to definitions")
	flags.BoolVar(&declsFlag, "decls", false, "restrict query to declarations")
	flags.BoolVarP(&versionFlag, "version", "v", false, "print version")
	flags.BoolVarP(&altHelpFlag, "question-help", "?", false, "show help")
	_ = flags.MarkHidden("question-help")
}

func run(cmd *cobra.Command, args []string) error {
	if altHelpFlag {
		return cmd.Help()
	}
	if versionFlag {
		fmt.Println(version.Full())
		return nil
	}

	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	indexPath := cfg.IndexPath
	if indexPathFlag != "" {
		indexPath = indexPathFlag
	}

	severityMask := cfg.SeverityMask
	if severityFlag != "" {
		severityMask = severityFlag
	}
	mask, err := logging.ParseSeverityMask(severityMask)
	if err != nil {
		return fmt.Errorf("parsing -L severity mask: %w", err)
	}
	showSeverity := cfg.ShowSeverity || showSevFlag

	runID := uuid.New().String()
	logger := logging.NewLogger(logging.Config{
		Format:       logging.Format(cfg.LogFormat),
		Level:        logging.LogLevel(cfg.LogLevel),
		RunID:        runID,
		SeverityMask: mask,
		ShowSeverity: showSeverity,
	})

	out, err := report.OpenOutput(outputFlag)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer out.Close()

	var extraTypeNames []string
	for _, typesFile := range typesFlag {
		names, err := loadTypeNames(typesFile)
		if err != nil {
			return fmt.Errorf("reading -t type file %s: %w", typesFile, err)
		}
		extraTypeNames = append(extraTypeNames, names...)
	}

	if cfg.LangProfile != "" {
		profile, err := config.LoadLangProfile(cfg.LangProfile)
		if err != nil {
			return fmt.Errorf("loading language profile %s: %w", cfg.LangProfile, err)
		}
		extraTypeNames = append(extraTypeNames, profile.Types...)

		overrides := make(map[string]chunk.Kind, len(profile.Keywords))
		for word, kindName := range profile.Keywords {
			kind, ok := chunk.ParseKind(strings.ToUpper(kindName))
			if !ok {
				return fmt.Errorf("language profile %s: unknown keyword kind %q for %q", cfg.LangProfile, kindName, word)
			}
			overrides[word] = kind
		}
		langs.SetExtraKeywords(overrides)
	}
	langs.SetExtraTypes(extraTypeNames)

	lockDir := filepath.Dir(indexPath)
	lock, err := index.AcquireLock(lockDir, logger)
	if err != nil {
		return err
	}
	defer lock.Release()

	store, err := index.Open(indexPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if idFlag != "" {
		return runQuery(out, store)
	}

	return runIndex(cmd, args, out, store, logger, cfg, runID, indexPath)
}

func runQuery(out io.Writer, store *index.Store) error {
	var tables []string
	if refsFlag {
		tables = append(tables, "Refs")
	}
	if defsFlag {
		tables = append(tables, "Defs")
	}
	if declsFlag {
		tables = append(tables, "Decls")
	}

	hits, err := store.Query(idFlag, tables)
	if err != nil {
		return err
	}
	return report.WriteHits(out, hits)
}

func runIndex(cmd *cobra.Command, args []string, out io.Writer, store *index.Store, logger *logging.Logger, cfg *config.Config, runID, indexPath string) error {
	start := time.Now()
	var listFiles []string
	if listFileFlag != "" {
		listFiles = []string{listFileFlag}
	}
	files, err := fileset.Resolve(args, listFiles, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("resolving file list: %w", err)
	}

	if n, err := store.Prune(func(name string) bool {
		_, statErr := os.Stat(name)
		return statErr == nil
	}); err != nil {
		logger.Error("orphan pruning failed", map[string]interface{}{"error": err.Error()})
	} else if n > 0 {
		logger.Info("pruned orphaned files", map[string]interface{}{"count": n})
	}

	forcedLang, hasForcedLang := langs.ParseTag(langFlag)
	if langFlag != "" && !hasForcedLang {
		return fmt.Errorf("unrecognized -l language tag %q", langFlag)
	}
	if !hasForcedLang && cfg.DefaultLanguage != "" {
		forcedLang, hasForcedLang = langs.ParseTag(cfg.DefaultLanguage)
	}

	coord := &pipeline.Coordinator{Store: store, Logger: logger}

	for _, f := range files {
		canonical, err := paths.Canonicalize(f, ".")
		if err != nil {
			canonical = paths.Normalize(f)
		}
		display := paths.DisplayPath(canonical)

		lang := langs.DetectByExtension(canonical)
		if hasForcedLang {
			lang = forcedLang
		}

		res, err := coord.ProcessFile(canonical, lang)
		if err != nil {
			if kind, ok := tokserr.KindOf(err); ok && kind.PerFile() {
				logger.Error("file processing failed", map[string]interface{}{
					"file":  display,
					"kind":  string(kind),
					"error": err.Error(),
				})
				continue
			}
			return err
		}
		if res.Skipped {
			logger.Debug("skipped unchanged file", map[string]interface{}{"file": display})
			continue
		}
		logger.Info("indexed file", map[string]interface{}{"file": display, "entries": res.EntryCount})

		if dumpFlag && res.DumpedState != nil {
			if err := report.DumpTokens(out, res.DumpedState.List); err != nil {
				return fmt.Errorf("dumping tokens for %s: %w", display, err)
			}
		}
	}

	meta := &index.RunMeta{
		Version:   index.MetadataVersion,
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
		FileCount: len(files),
		ErrCount:  coord.ErrCount,
		Duration:  time.Since(start).String(),
	}
	if err := meta.Save(indexPath); err != nil {
		logger.Error("saving run metadata failed", map[string]interface{}{"error": err.Error()})
	}

	if coord.ErrCount > 0 {
		return fmt.Errorf("%d file(s) failed to index", coord.ErrCount)
	}
	return nil
}

// loadTypeNames reads the -t file: one type name per line.
func loadTypeNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names, scanner.Err()
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/Schwifty101/Algo-MerkleTree/internal/download"
	"github.com/Schwifty101/Algo-MerkleTree/pkg/config"
	"github.com/Schwifty101/Algo-MerkleTree/pkg/logger"
	"github.com/Schwifty101/Algo-MerkleTree/pkg/merkle"
	"github.com/Schwifty101/Algo-MerkleTree/pkg/persistence"
	badgerstore "github.com/Schwifty101/Algo-MerkleTree/pkg/persistence/badger"
	"github.com/Schwifty101/Algo-MerkleTree/pkg/persistence/memory"
	redisstore "github.com/Schwifty101/Algo-MerkleTree/pkg/persistence/redis"
	"github.com/Schwifty101/Algo-MerkleTree/pkg/reviews"
	"github.com/Schwifty101/Algo-MerkleTree/pkg/verification"
)

func main() {
	app := &cli.App{
		Name:  "merkle-verify",
		Usage: "Merkle tree integrity verification for review datasets",
		Description: `Builds merkle trees over ordered review datasets, persists baseline
root hashes, and verifies dataset integrity with O(1) root comparison.

Supports:
- Tree construction with hybrid storage (root + leaf hashes only)
- Inclusion proofs generated by replaying the pairing over leaf hashes
- Baseline snapshots in badger, redis, or memory stores
- Positional tamper localization between two tree snapshots`,
		Version: "1.0.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Value:   "data",
				Usage:   "Directory for datasets and exported snapshots",
				EnvVars: []string{config.EnvDataDir},
			},
			&cli.StringFlag{
				Name:    "store",
				Value:   string(config.StoreBackendBadger),
				Usage:   "Baseline store backend: " + config.SupportedBackendsString(),
				EnvVars: []string{config.EnvStoreBackend},
			},
			&cli.StringFlag{
				Name:    "store-path",
				Value:   "data/.merkle_baselines",
				Usage:   "Badger database directory",
				EnvVars: []string{config.EnvStorePath},
			},
			&cli.StringFlag{
				Name:    "redis-address",
				Value:   "localhost:6379",
				Usage:   "Redis server address (redis backend)",
				EnvVars: []string{config.EnvRedisAddress},
			},
			&cli.IntFlag{
				Name:    "redis-db",
				Value:   0,
				Usage:   "Redis database number (redis backend)",
				EnvVars: []string{config.EnvRedisDB},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Usage:   "Enable debug logging",
				EnvVars: []string{config.EnvVerbose},
			},
		},
		Commands: []*cli.Command{
			downloadCommand(),
			buildCommand(),
			inspectCommand(),
			proveCommand(),
			verifyProofCommand(),
			baselineCommand(),
			checkCommand(),
			diffCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func parseConfig(c *cli.Context) (*config.Config, error) {
	cfg := &config.Config{
		DataDir:      c.String("data-dir"),
		StoreBackend: config.StoreBackend(c.String("store")),
		StorePath:    c.String("store-path"),
		RedisAddress: c.String("redis-address"),
		RedisDB:      c.Int("redis-db"),
		Verbose:      c.Bool("verbose"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	return logger.NewLogger(&logger.LoggerConfig{Debug: c.Bool("verbose")})
}

func openStore(cfg *config.Config, l *zap.Logger) (persistence.BaselineStore, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendBadger:
		return badgerstore.NewBadgerStore(cfg.StorePath, l)
	case config.StoreBackendRedis:
		return redisstore.NewRedisStore(&redisstore.RedisConfig{
			Address: cfg.RedisAddress,
			DB:      cfg.RedisDB,
		}, l)
	case config.StoreBackendMemory:
		return memory.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.StoreBackend)
	}
}

func loadTreeSnapshot(path string) (*merkle.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree snapshot %s: %w", path, err)
	}
	return merkle.UnmarshalTree(data)
}

func writeJSONFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "download",
		Usage: "Download and decompress a review dataset",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "category",
				Usage:    "Dataset category, e.g. " + strings.Join(download.Categories()[:3], ", "),
				Required: true,
			},
			&cli.StringFlag{
				Name:  "variant",
				Value: download.VariantFiveCore,
				Usage: "Dataset variant: 5-core or full",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := parseConfig(c)
			if err != nil {
				return err
			}
			l, err := newLogger(c)
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			d := download.NewDownloader(cfg.DataDir, l)
			path, err := d.Download(c.Context, c.String("category"), c.String("variant"))
			if err != nil {
				return err
			}

			fmt.Printf("Dataset downloaded to %s\n", path)
			return nil
		},
	}
}

func buildCommand() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Build a merkle tree from a dataset file and export its snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Usage:    "Dataset file (line-delimited or array JSON)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Usage:    "Tree snapshot output file",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum records to load (0 = all)",
			},
			&cli.BoolFlag{
				Name:  "require-all-fields",
				Usage: "Drop records missing any canonical field",
			},
		},
		Action: func(c *cli.Context) error {
			l, err := newLogger(c)
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			recs, err := reviews.LoadReviews(c.String("input"), reviews.LoadOptions{
				Limit:            c.Int("limit"),
				RequireAllFields: c.Bool("require-all-fields"),
			})
			if err != nil {
				return err
			}

			tree, err := merkle.BuildReviewTree(recs)
			if err != nil {
				return err
			}

			snapshot, err := merkle.MarshalTree(tree)
			if err != nil {
				return err
			}
			if err := writeJSONFile(c.String("output"), snapshot); err != nil {
				return err
			}

			fmt.Printf("Built tree over %d records\n", tree.LeafCount())
			fmt.Printf("Root hash: %s\n", tree.RootHex())
			fmt.Printf("Snapshot written to %s\n", c.String("output"))
			return nil
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Show root hash and leaf count of a tree snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tree", Usage: "Tree snapshot file", Required: true},
		},
		Action: func(c *cli.Context) error {
			tree, err := loadTreeSnapshot(c.String("tree"))
			if err != nil {
				return err
			}
			fmt.Printf("Root hash:  %s\n", tree.RootHex())
			fmt.Printf("Leaf count: %d\n", tree.LeafCount())
			return nil
		},
	}
}

func proveCommand() *cli.Command {
	return &cli.Command{
		Name:  "prove",
		Usage: "Generate an inclusion proof for a leaf index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "tree",
				Usage:    "Tree snapshot file",
				Required: true,
			},
			&cli.IntFlag{
				Name:     "index",
				Usage:    "0-based leaf index to prove",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "input",
				Usage: "Dataset file; embeds the record at the index as leaf data",
			},
			&cli.StringFlag{
				Name:     "output",
				Usage:    "Proof output file",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum records to load from the dataset (0 = all)",
			},
		},
		Action: func(c *cli.Context) error {
			tree, err := loadTreeSnapshot(c.String("tree"))
			if err != nil {
				return err
			}

			index := c.Int("index")

			var leafData any
			if input := c.String("input"); input != "" {
				recs, err := reviews.LoadReviews(input, reviews.LoadOptions{Limit: c.Int("limit")})
				if err != nil {
					return err
				}
				if index < 0 || index >= len(recs) {
					return fmt.Errorf("index %d outside loaded dataset of %d records", index, len(recs))
				}
				leafData = recs[index]
			}

			proof, err := tree.GenerateProof(index, leafData)
			if err != nil {
				return err
			}

			data, err := merkle.MarshalProof(proof)
			if err != nil {
				return err
			}
			if err := writeJSONFile(c.String("output"), data); err != nil {
				return err
			}

			fmt.Printf("Proof for leaf %d (path length %d) written to %s\n",
				index, len(proof.Path), c.String("output"))
			return nil
		},
	}
}

func verifyProofCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify-proof",
		Usage: "Verify a serialized inclusion proof",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "proof", Usage: "Proof file", Required: true},
		},
		Action: func(c *cli.Context) error {
			data, err := os.ReadFile(c.String("proof"))
			if err != nil {
				return fmt.Errorf("failed to read proof file: %w", err)
			}

			proof, err := merkle.UnmarshalProof(data)
			if err != nil {
				return err
			}

			if proof.Verify() {
				fmt.Println("Proof VALID: leaf is included in the committed tree")
				return nil
			}

			fmt.Println("Proof INVALID: recomputed root does not match claimed root")
			return cli.Exit("", 1)
		},
	}
}

func baselineCommand() *cli.Command {
	return &cli.Command{
		Name:  "baseline",
		Usage: "Manage persisted baseline snapshots",
		Subcommands: []*cli.Command{
			{
				Name:  "save",
				Usage: "Save a tree snapshot as the named baseline",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tree", Usage: "Tree snapshot file", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Dataset name", Required: true},
					&cli.StringSliceFlag{Name: "meta", Usage: "Metadata entries as key=value"},
				},
				Action: withChecker(func(c *cli.Context, checker *verification.Checker) error {
					tree, err := loadTreeSnapshot(c.String("tree"))
					if err != nil {
						return err
					}

					metadata := map[string]string{}
					for _, kv := range c.StringSlice("meta") {
						parts := strings.SplitN(kv, "=", 2)
						if len(parts) != 2 {
							return fmt.Errorf("invalid metadata entry %q (want key=value)", kv)
						}
						metadata[parts[0]] = parts[1]
					}

					baseline, err := checker.SaveBaseline(tree, c.String("name"), metadata)
					if err != nil {
						return err
					}
					return printJSON(baseline)
				}),
			},
			{
				Name:  "list",
				Usage: "List stored baselines",
				Action: withChecker(func(c *cli.Context, checker *verification.Checker) error {
					baselines, err := checker.ListBaselines()
					if err != nil {
						return err
					}
					if len(baselines) == 0 {
						fmt.Println("No baselines stored")
						return nil
					}
					for _, b := range baselines {
						fmt.Printf("%-30s %s  %d leaves  %s\n",
							b.DatasetName, b.RootHash[:16]+"...", b.LeafCount,
							b.Timestamp.Format("2006-01-02 15:04:05"))
					}
					return nil
				}),
			},
			{
				Name:  "delete",
				Usage: "Delete a stored baseline",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "Dataset name", Required: true},
				},
				Action: withChecker(func(c *cli.Context, checker *verification.Checker) error {
					if err := checker.DeleteBaseline(c.String("name")); err != nil {
						return err
					}
					fmt.Printf("Baseline %q deleted\n", c.String("name"))
					return nil
				}),
			},
			{
				Name:  "compare",
				Usage: "Compare two stored baselines",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "a", Usage: "First dataset name", Required: true},
					&cli.StringFlag{Name: "b", Usage: "Second dataset name", Required: true},
				},
				Action: withChecker(func(c *cli.Context, checker *verification.Checker) error {
					cmp, err := checker.CompareBaselines(c.String("a"), c.String("b"))
					if err != nil {
						return err
					}
					return printJSON(cmp)
				}),
			},
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Verify a tree snapshot against a stored baseline",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "tree", Usage: "Tree snapshot file", Required: true},
			&cli.StringFlag{Name: "name", Usage: "Baseline dataset name", Required: true},
		},
		Action: withChecker(func(c *cli.Context, checker *verification.Checker) error {
			tree, err := loadTreeSnapshot(c.String("tree"))
			if err != nil {
				return err
			}

			result, err := checker.VerifyIntegrity(tree, c.String("name"))
			if err != nil {
				return err
			}
			if err := printJSON(result); err != nil {
				return err
			}
			if !result.Verified {
				return cli.Exit("", 1)
			}
			return nil
		}),
	}
}

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "Positional leaf-hash diff between a baseline and a current tree snapshot",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "baseline-tree", Usage: "Baseline tree snapshot file", Required: true},
			&cli.StringFlag{Name: "current-tree", Usage: "Current tree snapshot file", Required: true},
		},
		Action: func(c *cli.Context) error {
			baseline, err := loadTreeSnapshot(c.String("baseline-tree"))
			if err != nil {
				return err
			}
			current, err := loadTreeSnapshot(c.String("current-tree"))
			if err != nil {
				return err
			}

			report := verification.DetectTampering(baseline, current)
			if err := printJSON(report); err != nil {
				return err
			}
			if report.TamperingDetected {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// withChecker opens the configured baseline store, builds a Checker around
// it and guarantees the store is closed when the action returns.
func withChecker(action func(*cli.Context, *verification.Checker) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := parseConfig(c)
		if err != nil {
			return err
		}
		l, err := newLogger(c)
		if err != nil {
			return err
		}
		defer func() { _ = l.Sync() }()

		store, err := openStore(cfg, l)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		return action(c, verification.NewChecker(store, l))
	}
}

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentcloud/vectordb-proxy/v1/logger"
	"github.com/agentcloud/vectordb-proxy/v1/vectordb"
	"github.com/agentcloud/vectordb-proxy/v1/vectorstore"
)

// collectionFlags are shared by every command addressing one collection.
type collectionFlags struct {
	region string
	cloud  string
}

func (f *collectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.region, "region", "", "region of the collection (US, EU, AU); defaults to the configured placement")
	cmd.Flags().StringVar(&f.cloud, "cloud", "", "cloud of the collection (GCP, AWS, AZURE); defaults to the configured placement")
}

func (f *collectionFlags) request(collection string) (vectordb.SearchRequest, error) {
	req := vectordb.SearchRequest{SearchType: vectordb.SearchTypeCollection, Collection: collection}
	if f.region != "" {
		r, err := vectordb.ParseRegion(f.region)
		if err != nil {
			return req, err
		}
		req.Region = &r
	}
	if f.cloud != "" {
		c, err := vectordb.ParseCloud(f.cloud)
		if err != nil {
			return req, err
		}
		req.Cloud = &c
	}
	return req, nil
}

// withDatabase opens the configured backend for the duration of fn.
func withDatabase(cmd *cobra.Command, fn func(db vectorstore.Database) (any, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.NewLoggerClient(cfg.Logger)
	defer func() { _ = log.Zap.Sync() }()

	db, err := vectorstore.New(cfg.VectorDB, vectorstore.Options{Logger: log})
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := fn(db)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func newCollectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"col"},
		Short:   "Manage collections on the configured backend",
	}
	cmd.AddCommand(
		newListCommand(),
		newExistsCommand(),
		newInfoCommand(),
		newStorageCommand(),
		newCreateCommand(),
		newDeleteCommand(),
	)
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collection names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd, func(db vectorstore.Database) (any, error) {
				return db.GetListOfCollections(cmd.Context())
			})
		},
	}
}

func newExistsCommand() *cobra.Command {
	var flags collectionFlags
	cmd := &cobra.Command{
		Use:   "exists <collection>",
		Short: "Check whether a collection exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			return withDatabase(cmd, func(db vectorstore.Database) (any, error) {
				return db.CheckCollectionExists(cmd.Context(), req)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newInfoCommand() *cobra.Command {
	var flags collectionFlags
	cmd := &cobra.Command{
		Use:   "info <collection>",
		Short: "Show metric, dimensions and vector count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			return withDatabase(cmd, func(db vectorstore.Database) (any, error) {
				return db.GetCollectionInfo(cmd.Context(), req)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newStorageCommand() *cobra.Command {
	var (
		flags        collectionFlags
		vectorLength int
	)
	cmd := &cobra.Command{
		Use:   "storage <collection>",
		Short: "Estimate the raw vector storage of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if vectorLength <= 0 {
				return fmt.Errorf("--vector-length must be positive")
			}
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			return withDatabase(cmd, func(db vectorstore.Database) (any, error) {
				return db.GetStorageSize(cmd.Context(), req, vectorLength)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&vectorLength, "vector-length", 0, "dimensions of each stored vector")
	return cmd
}

func newCreateCommand() *cobra.Command {
	var (
		flags      collectionFlags
		dimensions uint64
		distance   string
	)
	cmd := &cobra.Command{
		Use:   "create <collection>",
		Short: "Create a collection, or confirm a compatible one exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			d, err := vectordb.ParseDistance(distance)
			if err != nil {
				return err
			}
			create := vectordb.CollectionCreate{
				CollectionName: args[0],
				Size:           dimensions,
				Distance:       d,
				Region:         req.Region,
				Cloud:          req.Cloud,
			}
			return withDatabase(cmd, func(db vectorstore.Database) (any, error) {
				return db.CreateCollection(cmd.Context(), create)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().Uint64Var(&dimensions, "dimensions", 0, "vector dimensions")
	cmd.Flags().StringVar(&distance, "distance", "Cosine", "distance metric (Cosine, Euclid, Dot, Manhattan)")
	return cmd
}

func newDeleteCommand() *cobra.Command {
	var flags collectionFlags
	cmd := &cobra.Command{
		Use:   "delete <collection>",
		Short: "Delete a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			return withDatabase(cmd, func(db vectorstore.Database) (any, error) {
				status, err := db.DeleteCollection(cmd.Context(), req)
				if err != nil {
					return nil, err
				}
				if status.Err != nil {
					return nil, status.Err
				}
				return status, nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

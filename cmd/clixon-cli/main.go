// Command clixon-cli is a thin frontend over the facade, exercising
// get/put-key against a bbolt-backed datastore (SPEC_FULL.md §2.4).
package main

import (
	"fmt"
	"os"

	"github.com/askorichenko/clixon"
	"github.com/askorichenko/clixon/kvstore"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	yangFiles []string
	yangDirs  []string
	excluded  []string
	dbFile    string
	db        string
	logLevel  string
)

func main() {
	root := &cobra.Command{
		Use:   "clixon-cli",
		Short: "query and edit a YANG-modeled configuration datastore",
	}
	root.PersistentFlags().StringSliceVar(&yangFiles, "yang-file", nil, "YANG module file (repeatable)")
	root.PersistentFlags().StringSliceVar(&yangDirs, "yang-dir", nil, "YANG include/import search directory (repeatable)")
	root.PersistentFlags().StringSliceVar(&excluded, "exclude", nil, "module name to exclude (repeatable)")
	root.PersistentFlags().StringVar(&dbFile, "db-file", "clixon.db", "backing bbolt file")
	root.PersistentFlags().StringVar(&db, "datastore", "running", "named datastore")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logrus level")

	root.AddCommand(getCmd(), putKeyCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openFacade() (*clixon.Facade, *kvstore.Bolt, error) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}
	log := clixon.NewLogger(level)

	spec, err := clixon.Load(yangFiles, yangDirs, excluded)
	if err != nil {
		return nil, nil, err
	}
	store, err := kvstore.Open(dbFile)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Init(db); err != nil {
		store.Close()
		return nil, nil, err
	}
	return clixon.NewFacade(store, spec, clixon.WithDatastore(log, db)), store, nil
}

func getCmd() *cobra.Command {
	var xpath string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "read the datastore, optionally pruned by an xpath",
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, store, err := openFacade()
			if err != nil {
				return err
			}
			defer store.Close()
			tree, err := facade.Get(db, xpath)
			if err != nil {
				return err
			}
			return clixon.Serialize(os.Stdout, tree)
		},
	}
	cmd.Flags().StringVar(&xpath, "xpath", "", "XPath expression to prune the result to")
	return cmd
}

func putKeyCmd() *cobra.Command {
	var (
		key   string
		value string
		op    string
	)
	cmd := &cobra.Command{
		Use:   "put-key",
		Short: "edit a single key in the datastore",
		RunE: func(cmd *cobra.Command, args []string) error {
			facade, store, err := openFacade()
			if err != nil {
				return err
			}
			defer store.Close()
			operation, err := clixon.ParseOperation(op)
			if err != nil {
				return err
			}
			if err := facade.PutKey(db, clixon.XmlKey(key), value, value != "", operation); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, "ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "XmlKey to write")
	cmd.Flags().StringVar(&value, "value", "", "value to write")
	cmd.Flags().StringVar(&op, "operation", "merge", "merge|replace|create|delete|remove|none")
	cmd.MarkFlagRequired("key")
	return cmd
}

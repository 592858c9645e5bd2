// Command djutil is a small operational CLI over the hashing and signing
// packages: hash or verify passwords against the configured registry, sign
// and unsign values, and seal or open signed JSON payloads.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hasbyte1/go-django-utils/config"
	"github.com/hasbyte1/go-django-utils/hashing"
	"github.com/hasbyte1/go-django-utils/signing"
)

var (
	cfgFile   string
	algorithm string
	salt      string
	maxAge    time.Duration
	compress  bool

	cfg config.Config
	reg *hashing.Registry
)

var rootCmd = &cobra.Command{
	Use:   "djutil",
	Short: "Password hashing and signed-value tooling",
	Long: `djutil hashes and verifies passwords with a configurable set of
algorithms (PBKDF2, Argon2id, bcrypt, plus legacy SHA1/MD5/crypt formats)
and produces tamper-evident signed strings and JSON payloads.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		reg = cfg.Registry()
		return nil
	},
}

var hashCmd = &cobra.Command{
	Use:   "hash <password>",
	Short: "Hash a password for storage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		encoded, err := reg.MakePasswordWith(algorithm, args[0], salt)
		if err != nil {
			return err
		}
		fmt.Println(encoded)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <password> <encoded>",
	Short: "Check a password against a stored hash",
	Long: `Check a password against a stored hash. The algorithm is detected from
the hash itself. Exits 0 on a match, 1 on a mismatch. When the hash was made
with a non-preferred algorithm, an upgraded hash is printed alongside.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ok, err := reg.CheckPassword(args[0], args[1], func(password string) {
			upgraded, err := reg.MakePassword(password)
			if err != nil {
				fmt.Fprintf(os.Stderr, "could not compute upgraded hash: %v\n", err)
				return
			}
			fmt.Printf("upgrade available: %s\n", upgraded)
		})
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("no match")
			os.Exit(1)
		}
		fmt.Println("match")
		return nil
	},
}

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List configured hash algorithms (preferred first)",
	RunE: func(cmd *cobra.Command, args []string) error {
		algs, err := reg.Algorithms()
		if err != nil {
			return err
		}
		for _, a := range algs {
			fmt.Println(a)
		}
		return nil
	},
}

var signCmd = &cobra.Command{
	Use:   "sign <value>",
	Short: "Sign a value with the secret key (timestamped)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateSigning(); err != nil {
			return err
		}
		fmt.Println(signing.NewTimestampSigner(cfg.SecretKey).Sign(args[0], salt))
		return nil
	},
}

var unsignCmd = &cobra.Command{
	Use:   "unsign <signed-value>",
	Short: "Verify a signed value and print the original",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateSigning(); err != nil {
			return err
		}
		value, err := signing.NewTimestampSigner(cfg.SecretKey).Unsign(args[0], salt, maxAge)
		if err != nil {
			if errors.Is(err, signing.ErrSignatureExpired) {
				return fmt.Errorf("expired: %w", err)
			}
			return err
		}
		fmt.Println(value)
		return nil
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump <json>",
	Short: "Sign a JSON document into a compact URL-safe token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateSigning(); err != nil {
			return err
		}
		var obj any
		if err := json.Unmarshal([]byte(args[0]), &obj); err != nil {
			return fmt.Errorf("input is not valid JSON: %w", err)
		}
		token, err := signing.Dumps(obj, cfg.SecretKey, salt, compress)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <token>",
	Short: "Verify a signed token and print the JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateSigning(); err != nil {
			return err
		}
		var obj any
		if err := signing.Loads(args[0], cfg.SecretKey, salt, maxAge, &obj); err != nil {
			return err
		}
		out, err := json.Marshal(obj)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&salt, "salt", "", "hash salt / signing context salt")

	hashCmd.Flags().StringVarP(&algorithm, "algorithm", "a", hashing.Default,
		"hash algorithm (default = first configured hasher)")

	unsignCmd.Flags().DurationVar(&maxAge, "max-age", 0, "reject values older than this (0 = no limit)")
	loadCmd.Flags().DurationVar(&maxAge, "max-age", 0, "reject tokens older than this (0 = no limit)")
	dumpCmd.Flags().BoolVar(&compress, "compress", false, "zlib-compress the payload when it helps")

	rootCmd.AddCommand(hashCmd, verifyCmd, algorithmsCmd, signCmd, unsignCmd, dumpCmd, loadCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

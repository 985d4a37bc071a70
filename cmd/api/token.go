package main

import (
	"fmt"
	"os"
	"strconv"

	"restaurant/internal/idcipher"

	"github.com/spf13/cobra"
)

// 運用向け: ID と不透明トークンの変換（QRの再発行や問い合わせ調査用）
func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Encode or decode opaque identifier tokens",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "encode <id>",
		Short: "Encrypt a numeric id into a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("id must be a number: %w", err)
			}
			c, err := cipherFromEnv()
			if err != nil {
				return err
			}
			token, err := c.Encode(id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "decode <token>",
		Short: "Decrypt a token back into its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cipherFromEnv()
			if err != nil {
				return err
			}
			id, err := c.Decode(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	return cmd
}

// token コマンドはDBもPORTも要らないので cipher の設定だけ読む
func cipherFromEnv() (*idcipher.Cipher, error) {
	secret := os.Getenv("ID_CIPHER_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("ID_CIPHER_SECRET is required")
	}
	salt := os.Getenv("ID_CIPHER_SALT")
	if salt == "" {
		salt = "salt"
	}
	return idcipher.New(secret, salt)
}

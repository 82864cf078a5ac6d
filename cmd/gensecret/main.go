package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

const SecretKeyBytesLen = 32

// Every secret the service needs, one per token kind plus password hashing one
var secretKeys = []string{
	"ACCESS_TOKEN_SECRET",
	"REFRESH_TOKEN_SECRET",
	"EMAIL_VERIFY_TOKEN_SECRET",
	"FORGOT_PASSWORD_TOKEN_SECRET",
	"PASSWORD_SECRET",
}

func main() {
	if err := writeSecrets(os.Stdout, rand.Reader); err != nil {
		fmt.Printf("error while generating secret key: %v", err)
		os.Exit(1)
	}
}

// Write '.env' block with fresh secrets
func writeSecrets(w io.Writer, random io.Reader) error {
	for _, key := range secretKeys {
		b := make([]byte, SecretKeyBytesLen)
		if _, err := io.ReadFull(random, b); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", key, hex.EncodeToString(b)); err != nil {
			return err
		}
	}
	return nil
}

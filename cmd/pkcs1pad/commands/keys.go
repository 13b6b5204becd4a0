package commands

import (
	"context"
	"encoding/pem"
	"fmt"
	"io"
	"os"

	"github.com/pkcs1pad/pkcs1pad-go/internal/akcipher"
	"github.com/pkcs1pad/pkcs1pad-go/pkg/pkcs1pad"
)

func loadPEM(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("%s: no PEM block found", path)
	}
	return block.Bytes, nil
}

func newTransform(public bool) (*pkcs1pad.Transform, error) {
	if keyPath == "" {
		return nil, fmt.Errorf("--key is required")
	}
	der, err := loadPEM(keyPath)
	if err != nil {
		return nil, err
	}

	tfm := pkcs1pad.New(akcipher.NewSoftwareEngine(), hashName)
	if public {
		err = tfm.SetPublicKey(der)
	} else {
		err = tfm.SetPrivateKey(der)
	}
	if err != nil {
		return nil, fmt.Errorf("install key: %w", err)
	}
	return tfm, nil
}

func runOp(public bool, op func(tfm *pkcs1pad.Transform, ctx context.Context, req *pkcs1pad.Request) (int, error)) error {
	tfm, err := newTransform(public)
	if err != nil {
		return err
	}
	k, err := tfm.MaxSize()
	if err != nil {
		return fmt.Errorf("max size: %w", err)
	}

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	dst := make([]byte, k)
	n, err := op(tfm, context.Background(), &pkcs1pad.Request{Src: src, Dst: dst})
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(dst[:n])
	return err
}

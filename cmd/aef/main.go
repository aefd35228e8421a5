package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/0x0FACED/uuid"
	"github.com/0x0FACED/zlog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/wraithcrypt/aef/pkg/aef"
	"github.com/wraithcrypt/aef/pkg/core/progress"
	"github.com/wraithcrypt/aef/pkg/walk"
)

var logger *zlog.ZerologLogger

func main() {
	logger, _ = zlog.NewZerologLogger(zlog.LoggerConfig{LogLevel: "info"})

	root := rootCmd()
	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("aef: fatal error")
		os.Exit(1)
	}
}

type runFlags struct {
	encrypt   bool
	decrypt   bool
	recursive bool
	quiet     bool
	version   bool
	chunkMiB  int
	m         uint32
	t         uint32
	p         uint32
	cipher    string
}

func rootCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "aef [paths...]",
		Short: "aef — password-based authenticated file encryption",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.version {
				fmt.Println(aef.FormatVersion)
				return nil
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			return runPaths(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.encrypt, "encrypt", "e", false, "force encryption mode")
	cmd.Flags().BoolVarP(&flags.decrypt, "decrypt", "d", false, "force decryption mode")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "recurse into directories")
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress informational output")
	cmd.Flags().BoolVarP(&flags.version, "version", "v", false, "print the container format version")
	cmd.Flags().IntVar(&flags.chunkMiB, "chunk", 1, "chunk size in MiB")
	cmd.Flags().Uint32Var(&flags.m, "m", aef.DefaultKDFMemoryKiB, "Argon2id memory cost in KiB")
	cmd.Flags().Uint32Var(&flags.t, "t", aef.DefaultKDFTime, "Argon2id time cost")
	cmd.Flags().Uint32Var(&flags.p, "p", aef.DefaultKDFParallelism, "Argon2id parallelism")
	cmd.Flags().StringVarP(&flags.cipher, "cipher", "c", "xchacha20", "cipher suite: xchacha20, aes-gcm-siv, twofish-gcm-siv, serpent-gcm-siv, camellia-gcm-siv, aurora-siv")

	cmd.AddCommand(inspectCmd())

	return cmd
}

func runPaths(ctx context.Context, args []string, flags runFlags) error {
	suite, err := aef.ParseSuite(flags.cipher)
	if err != nil {
		return fmt.Errorf("aef: %s: %w", flags.cipher, err)
	}

	chunkMiB := flags.chunkMiB
	if chunkMiB < 1 {
		chunkMiB = 1
	}

	opts := aef.Options{
		Suite:     suite,
		ChunkSize: uint32(chunkMiB) << 20,
		KDF: aef.KDFParams{
			MemoryKiB:   flags.m,
			Time:        flags.t,
			Parallelism: flags.p,
		},
		PreserveMetadata: true,
	}

	runID := hex.EncodeToString(func() []byte { u := uuid.NewV4(); return u[:] }())

	var candidates []string
	for _, path := range args {
		mode := modeFor(path, flags)
		found, err := walk.Candidates(path, flags.recursive, mode)
		if err != nil {
			return fmt.Errorf("aef: %s: %w", path, err)
		}
		candidates = append(candidates, found...)
	}

	var password string
	if len(candidates) > 0 {
		if anyEncrypt(candidates, flags) {
			password, err = readPasswordTwice()
		} else {
			password, err = readPassword("Password: ")
		}
		if err != nil {
			return err
		}
	}

	var stepBar *progressbar.ProgressBar
	if !flags.quiet && len(candidates) > 1 {
		stepBar = progress.NewStepBar("files", len(candidates))
	}

	var results []opResult
	for _, path := range candidates {
		mode := modeFor(path, flags)

		var bar *progressbar.ProgressBar
		if !flags.quiet {
			bar = progress.NewPrettyProgressBar(path, -1)
			opts.Progress = &barProgress{bar: bar}
		} else {
			opts.Progress = aef.NoopProgress{}
		}

		var outPath string
		var opErr error
		if mode == walk.ModeEncrypt {
			outPath, opErr = aef.EncryptFile(ctx, path, password, opts)
		} else {
			outPath, opErr = aef.DecryptFile(ctx, path, password, opts)
		}

		res := opResult{Path: path, Suite: suite, OK: opErr == nil}
		if opErr != nil {
			res.Detail = opErr.Error()
			logger.Error().Str("run_id", runID).Str("path", path).Err(opErr).Msg("operation failed")
		} else {
			res.Detail = outPath
			logger.Info().Str("run_id", runID).Str("path", path).Str("out", outPath).Msg("operation succeeded")
		}
		results = append(results, res)

		if stepBar != nil {
			_ = stepBar.Add(1)
		}
	}

	if !flags.quiet && len(results) > 0 {
		renderSummary(results)
	}

	return nil
}

func modeFor(path string, flags runFlags) walk.Mode {
	switch {
	case flags.encrypt:
		return walk.ModeEncrypt
	case flags.decrypt:
		return walk.ModeDecrypt
	default:
		return walk.InferMode(path)
	}
}

// anyEncrypt reports whether at least one candidate will be encrypted,
// which decides whether the CLI needs the double-entry password prompt
// from §6.3 or the single-entry prompt used for decrypting existing
// containers.
func anyEncrypt(candidates []string, flags runFlags) bool {
	for _, path := range candidates {
		if modeFor(path, flags) == walk.ModeEncrypt {
			return true
		}
	}
	return false
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [container]",
		Short: "print a container's public header without decrypting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := aef.InspectHeader(args[0])
			if err != nil {
				return err
			}
			renderHeader(args[0], h)
			return nil
		},
	}
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (b *barProgress) Advance(unit string, n int) {
	_ = b.bar.Add(n)
}

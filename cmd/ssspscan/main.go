// Command ssspscan scans files or directories with an SSSP antivirus
// daemon and reports the outcome.
package main

import (
	"os"

	"github.com/natefinch/lumberjack"
	"github.com/zan8in/goflags"
	"github.com/zan8in/gologger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	sssp "github.com/DevHatRo/sssp-client-go"
)

type options struct {
	ConfigFile string
	ConnType   string
	Address    string

	File      string
	Dir       string
	Recursive bool

	Debug   bool
	LogFile string
}

func main() {
	opt := readFlags()

	kind, address := opt.ConnType, opt.Address
	copts := []sssp.ClientOption{sssp.WithLogger(buildLogger(opt))}

	if opt.ConfigFile != "" {
		cfg, err := sssp.LoadConfig(opt.ConfigFile)
		if err != nil {
			gologger.Fatal().Msg(err.Error())
		}
		kind, address = cfg.ConnType, cfg.Address
		copts = append(copts, sssp.WithConnectTimeout(cfg.ConnectTimeout()))
	}
	if address == "" {
		gologger.Fatal().Msg("no daemon address given, use -addr or -config")
	}

	client := sssp.NewClient(copts...)
	if err := client.Connect(kind, address); err != nil {
		gologger.Fatal().Msgf("connect failed: %s", err)
	}
	defer client.Close()

	var result *sssp.ScanResult
	var err error
	switch {
	case opt.File != "":
		result, err = client.ScanFile(opt.File)
	case opt.Dir != "":
		result, err = client.ScanDir(opt.Dir, opt.Recursive)
	default:
		gologger.Fatal().Msg("nothing to scan, use -file or -dir")
	}
	if err != nil {
		gologger.Fatal().Msgf("scan failed: %s", err)
	}

	switch result.Outcome {
	case sssp.OutcomeClean:
		gologger.Info().Msg("no virus found")
	case sssp.OutcomeInfected:
		for id, name := range result.Viruses {
			gologger.Warning().Msgf("%s: %s", id, name)
		}
	default:
		gologger.Error().Msgf("scan error: %s", result.Message)
	}
}

func readFlags() *options {
	opt := &options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`ssspscan - scan files with an SSSP antivirus daemon`)

	flagSet.CreateGroup("connection", "Connection",
		flagSet.StringVarP(&opt.ConnType, "conntype", "k", "unix", "connection kind: unix, tcp or remotetcp"),
		flagSet.StringVarP(&opt.Address, "addr", "a", "", "daemon address (socket path or host:port)"),
		flagSet.StringVarP(&opt.ConfigFile, "config", "c", "", "YAML connection profile (overrides -conntype/-addr)"),
	)

	flagSet.CreateGroup("scan", "Scan",
		flagSet.StringVarP(&opt.File, "file", "f", "", "scan a single file"),
		flagSet.StringVarP(&opt.Dir, "dir", "d", "", "scan the files of a directory"),
		flagSet.BoolVarP(&opt.Recursive, "recursive", "r", false, "recurse into subdirectories (with -dir)"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVar(&opt.Debug, "debug", false, "print protocol traces to stderr"),
		flagSet.StringVar(&opt.LogFile, "log", "", "write protocol traces to a rotated log file"),
	)

	_ = flagSet.Parse()
	return opt
}

// buildLogger assembles the protocol trace sink: a console core when
// -debug is set, plus a rotated file core when -log is set.
func buildLogger(opt *options) *zap.Logger {
	if !opt.Debug && opt.LogFile == "" {
		return zap.NewNop()
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	var cores []zapcore.Core
	if opt.Debug {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), zapcore.DebugLevel))
	}
	if opt.LogFile != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opt.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		cores = append(cores, zapcore.NewCore(encoder, writer, zapcore.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...))
}

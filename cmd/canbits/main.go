package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/notnil/canbits"
)

func main() {
	def := canbits.DefaultTimingConfig()
	var (
		id         = flag.Uint("id", 0x123, "Frame identifier")
		extended   = flag.Bool("ext", false, "Use a 29-bit identifier")
		fd         = flag.Bool("fd", false, "Build a CAN FD frame")
		brs        = flag.Bool("brs", false, "Shift the bit rate (CAN FD only)")
		esi        = flag.Bool("esi", false, "Error passive transmitter (CAN FD only)")
		rtr        = flag.Bool("rtr", false, "Remote frame (classical only)")
		data       = flag.String("data", "", "Payload as hex, e.g. DEADBEEF")
		dlc        = flag.Int("dlc", -1, "Override the DLC derived from the payload")
		nominal    = flag.String("nominal", timingString(def.Nominal), "Nominal timing prop,ph1,ph2,brp,sjw")
		dataTiming = flag.String("data-timing", timingString(def.Data), "Data timing prop,ph1,ph2,brp,sjw")
		errorAt    = flag.Int("error-at", -1, "Insert an error frame at this bit index")
		passive    = flag.Bool("passive", false, "Insert a passive instead of an active error frame")
		received   = flag.Bool("received", false, "Show the frame as sent by a receiver")
		traceOut   = flag.String("trace-out", "", "Write the CBOR encoded trace to this file")
		logLevel   = flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	)
	flag.Parse()

	level, err := parseLevel(*logLevel)
	if err != nil {
		log.Fatalf("invalid flags: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var cfg canbits.TimingConfig
	if cfg.Nominal, err = parseTiming(*nominal); err != nil {
		log.Fatalf("invalid nominal timing: %v", err)
	}
	if cfg.Data, err = parseTiming(*dataTiming); err != nil {
		log.Fatalf("invalid data timing: %v", err)
	}
	payload, err := hex.DecodeString(*data)
	if err != nil {
		log.Fatalf("invalid payload: %v", err)
	}

	flags := canbits.FrameFlags{FD: *fd, Extended: *extended, RTR: *rtr, BRS: *brs, ESI: *esi}
	frame, err := canbits.NewFrame(flags, uint32(*id), payload)
	if err != nil {
		log.Fatalf("invalid frame: %v", err)
	}
	if *dlc >= 0 {
		if err := frame.SetDlc(uint8(*dlc)); err != nil {
			log.Fatalf("invalid frame: %v", err)
		}
	}
	logger.Debug("frame built", "frame", frame.String(), "nominal", cfg.Nominal.String(), "data", cfg.Data.String())

	bf, err := canbits.NewBitFrame(frame, &cfg.Nominal, &cfg.Data)
	if err != nil {
		log.Fatalf("failed to build bits: %v", err)
	}
	if *errorAt >= 0 {
		insert := bf.InsertActiveErrorFrame
		if *passive {
			insert = bf.InsertPassiveErrorFrame
		}
		if err := insert(*errorAt); err != nil {
			log.Fatalf("failed to insert error frame: %v", err)
		}
		logger.Debug("error frame inserted", "index", *errorAt, "passive", *passive)
	}
	if *received {
		bf.TurnReceivedFrame()
	}

	fmt.Println(frame.String())
	fmt.Println(bf.String())
	fmt.Printf("bits=%d stuff=%d fixed=%d crc=0x%X stuffcount=%d cycles=%d\n",
		bf.Len(),
		bf.CountBits(canbits.VariableStuffBits()),
		bf.CountBits(canbits.FixedStuffBits()),
		bf.Crc(),
		bf.StuffCount(),
		bf.LenCycles(),
	)

	if *traceOut != "" {
		tr := bf.Trace()
		enc, err := canbits.EncodeTrace(tr)
		if err != nil {
			log.Fatalf("failed to encode trace: %v", err)
		}
		if err := os.WriteFile(*traceOut, enc, 0o644); err != nil {
			log.Fatalf("failed to write trace: %v", err)
		}
		logger.Info("trace written", "path", *traceOut, "segments", len(tr), "cycles", tr.Len(), "bytes", len(enc))
	}
}

// parseLevel converts the textual representation into a slog level.
func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "err":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

func parseTiming(s string) (canbits.BitTiming, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 5 {
		return canbits.BitTiming{}, fmt.Errorf("want prop,ph1,ph2,brp,sjw, got %q", s)
	}
	var v [5]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return canbits.BitTiming{}, err
		}
		v[i] = n
	}
	t := canbits.BitTiming{Prop: v[0], Ph1: v[1], Ph2: v[2], Brp: v[3], Sjw: v[4]}
	return t, t.Validate()
}

func timingString(t canbits.BitTiming) string {
	return fmt.Sprintf("%d,%d,%d,%d,%d", t.Prop, t.Ph1, t.Ph2, t.Brp, t.Sjw)
}

// adclog records the binary sample stream from a capture board to a CSV
// file, printing streaming statistics of the first channel while it logs.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/adclabs/fastadc/pkg/capture"
	"github.com/adclabs/fastadc/pkg/config"
	"github.com/adclabs/fastadc/pkg/stats"
)

func main() {
	var (
		portFlag    = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		baudFlag    = flag.Int("b", 0, "Baud rate override")
		configFlag  = flag.String("config", "config.yaml", "Configuration file path")
		fileFlag    = flag.String("f", "", "Output CSV file (default <timestamp>-log_data.csv)")
		verboseFlag = flag.Bool("v", false, "Show records on screen while logging")
		mockFlag    = flag.Bool("mock", false, "Use mocked device instead of serial port")
		listFlag    = flag.Bool("list", false, "List available serial ports and exit")
	)
	flag.Parse()

	if *listFlag {
		ports, err := capture.Ports()
		if err != nil {
			log.Fatalf("Failed to list serial ports: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p.Name)
		}
		return
	}

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial settings if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *baudFlag > 0 {
		cfg.Serial.Baud = *baudFlag
	}

	filename := *fileFlag
	if filename == "" {
		filename = time.Now().Format("2006-01-02-150405") + "-log_data.csv"
	}

	var device capture.Device
	if *mockFlag {
		device = capture.NewMock(&cfg.Mock)
		log.Printf("Using mocked capture device")
	} else {
		device = capture.New(cfg.Serial.Port, cfg.Serial.Baud, 0)
		log.Printf("Receiving serial data from %s at %d baud", cfg.Serial.Port, cfg.Serial.Baud)
	}

	if err := device.Connect(); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer device.Close()

	out, err := os.Create(filename)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", filename, err)
	}
	defer out.Close()
	log.Printf("Writing log data to %s", filename)

	acc := stats.New(cfg.Histogram.AssumedMean, cfg.Histogram.BinWidth)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	summary := time.NewTicker(5 * time.Second)
	defer summary.Stop()

	for {
		select {
		case <-sig:
			log.Printf("Interrupted, closing %s", filename)
			return

		case <-summary.C:
			if acc.Count() >= 2 {
				log.Printf("%d records: v1 mean %.1f, stddev %.2f",
					acc.Count(), acc.Mean(), acc.StdDev())
			}

		case rec, ok := <-device.Records():
			if !ok {
				log.Printf("Device stream ended, closing %s", filename)
				return
			}

			acc.Update(float32(rec.V1))

			line := fmt.Sprintf("%d,%d,%d\n", rec.Micros, rec.V1, rec.V2)
			if *verboseFlag {
				fmt.Print(line)
			}
			if _, err := out.WriteString(line); err != nil {
				log.Fatalf("Failed to write log: %v", err)
			}
		}
	}
}

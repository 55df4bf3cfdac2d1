// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// ssd1681demo draws on a 1.54" SSD1681 e-paper panel.
//
// It renders a text banner with a gray gradient, dithers it to the active
// waveform's palette and pushes it to the panel. With -partial it then counts
// up in a corner window using the partial waveform. With -preview the frame
// is also printed to the terminal; -nohw skips the hardware entirely.
//
// Wiring defaults to the Waveshare e-Paper HAT on a Raspberry Pi header;
// other pins are set in the YAML configuration:
//
//	spi: SPI0.0
//	pins:
//	  dc: GPIO25
//	  rst: GPIO17
//	  busy: GPIO24
//	waveform: gray4
//	rotation: "90"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/epaper/internal/config"
	appLog "github.com/GermanBionicSystems/epaper/internal/log"
	"github.com/GermanBionicSystems/epaper/screen2d"
	"github.com/GermanBionicSystems/epaper/ssd1681"
	"github.com/GermanBionicSystems/epaper/ssd1681/image2bit"
)

type flagConfig struct {
	configPath string
	spi        string
	waveform   ssd1681.LUTMode
	rotation   image2bit.Rotation
	text       string
	partial    int
	preview    bool
	noHW       bool
	logLevel   string

	set map[string]bool
}

func main() {
	flags := parseFlags()

	if err := mainImpl(flags); err != nil {
		appLog.Error("ssd1681demo failed", err)
		os.Exit(1)
	}
}

func mainImpl(flags flagConfig) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return fmt.Errorf("load config %s: %w", flags.configPath, err)
	}
	applyFlags(cfg, flags)

	level, err := appLog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	appLog.SetLevel(level)

	appLog.Info("effective config",
		"spi", cfg.SPI,
		"dc", cfg.Pins.DC,
		"waveform", cfg.Waveform,
		"rotation", cfg.Rotation,
		"busy_timeout", cfg.BusyTimeout,
		"preview", cfg.Preview,
		"nohw", flags.noHW,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mode := cfg.LUTMode()
	if flags.noHW {
		fb := image2bit.NewGray(ssd1681.Width, ssd1681.Height)
		fb.SetRotation(cfg.RotationValue())
		renderBanner(fb, cfg.Text, mode)
		return preview(fb)
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("initialize periph: %w", err)
	}

	dev, closer, err := open(cfg)
	if err != nil {
		return err
	}
	defer closer()
	defer func() {
		if err := dev.Sleep(); err != nil {
			appLog.Error("failed to put the panel to sleep", err)
		}
	}()
	appLog.Info("panel initialized", "dev", dev)

	fb := dev.Framebuffer()
	if err := dev.SetLUT(mode, fb); err != nil {
		return err
	}
	renderBanner(fb, cfg.Text, mode)
	if cfg.Preview {
		if err := preview(fb); err != nil {
			return err
		}
	}
	if err := dev.UpdateFrames(fb); err != nil {
		return err
	}
	appLog.Debug("refreshing", "waveform", mode)
	if err := dev.DisplayFrame(); err != nil {
		return err
	}

	if flags.partial > 0 {
		return countPartial(ctx, dev, flags.partial)
	}
	return nil
}

// open connects to the panel described by cfg. The returned function closes
// the SPI port.
func open(cfg *config.Config) (*ssd1681.Dev, func(), error) {
	p, err := spireg.Open(cfg.SPI)
	if err != nil {
		return nil, nil, fmt.Errorf("open SPI port %q: %w", cfg.SPI, err)
	}
	closer := func() {
		if err := p.Close(); err != nil {
			appLog.Error("failed to close SPI port", err)
		}
	}

	var dev *ssd1681.Dev
	if cfg.Pins.DC == "" {
		dev, err = ssd1681.NewHat(p, cfg.Opts())
	} else {
		var pins [4]gpio.PinIO
		for i, name := range []string{cfg.Pins.DC, cfg.Pins.CS, cfg.Pins.RST, cfg.Pins.Busy} {
			if name == "" {
				continue
			}
			if pins[i] = gpioreg.ByName(name); pins[i] == nil {
				closer()
				return nil, nil, fmt.Errorf("GPIO pin %s not found", name)
			}
		}
		var cs gpio.PinOut
		if pins[1] != nil {
			cs = pins[1]
		}
		if pins[2] == nil || pins[3] == nil {
			closer()
			return nil, nil, errors.New("rst and busy pins are required with custom wiring")
		}
		dev, err = ssd1681.New(p, pins[0], cs, pins[2], pins[3], cfg.Opts())
	}
	if err != nil {
		closer()
		return nil, nil, fmt.Errorf("initialize panel: %w", err)
	}
	return dev, closer, nil
}

// renderBanner draws text above a black to white gradient into fb.
func renderBanner(fb *image2bit.Gray, text string, mode ssd1681.LUTMode) {
	bounds := fb.Bounds()
	w, h := float64(bounds.Dx()), float64(bounds.Dy())

	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	grad := gg.NewLinearGradient(16, 0, w-16, 0)
	grad.AddColorStop(0, image2bit.Black)
	grad.AddColorStop(1, image2bit.White)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(16, h*0.6, w-32, h*0.25)
	dc.Fill()

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)
	dc.DrawRoundedRectangle(4, 4, w-8, h-8, 10)
	dc.Stroke()

	if ttf, err := truetype.Parse(goregular.TTF); err != nil {
		appLog.Error("failed to parse font, using basic font", err)
		dc.SetFontFace(basicfont.Face7x13)
	} else {
		dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{Size: 20}))
	}
	dc.DrawStringWrapped(text, w/2, h*0.3, 0.5, 0.5, w-24, 1.2, gg.AlignCenter)

	fb.Clear(image2bit.White)
	if mode == ssd1681.Gray4 {
		draw.FloydSteinberg.Draw(fb, bounds, dc.Image(), image.Point{})
		return
	}
	// The black and white waveforms only drive the first plane.
	mono := image2bit.NewMono(ssd1681.Width, ssd1681.Height)
	mono.SetRotation(fb.Rotation())
	draw.FloydSteinberg.Draw(mono, bounds, dc.Image(), image.Point{})
	draw.Draw(fb, bounds, mono, image.Point{}, draw.Src)
}

// countPartial redraws a counter n times in a window using the partial
// waveform.
func countPartial(ctx context.Context, dev *ssd1681.Dev, n int) error {
	fb := dev.Framebuffer()
	if err := dev.SetLUT(ssd1681.Partial, fb); err != nil {
		return err
	}

	area := image.Rect(8, 8, 8+64, 8+16)
	if err := dev.SetWindow(area); err != nil {
		return err
	}
	defer func() {
		if err := dev.UnsetWindow(); err != nil {
			appLog.Error("failed to reset RAM window", err)
		}
	}()

	face := basicfont.Face7x13
	img := image.NewGray(image.Rect(0, 0, area.Dx(), area.Dy()))
	for i := 1; i <= n; i++ {
		select {
		case <-ctx.Done():
			appLog.Info("interrupted", "count", i-1)
			return nil
		default:
		}

		draw.Draw(img, img.Rect, image.White, image.Point{}, draw.Src)
		drawer := font.Drawer{
			Dst:  img,
			Src:  image.Black,
			Face: face,
			Dot:  fixed.P(2, img.Rect.Dy()-face.Descent),
		}
		drawer.DrawString(strconv.Itoa(i))

		if err := dev.Draw(area, img, image.Point{}); err != nil {
			return err
		}
		appLog.Debug("partial refresh", "count", i)
	}
	return nil
}

func preview(fb *image2bit.Gray) error {
	b := fb.Bounds()
	s := screen2d.New(&screen2d.Opts{X: b.Dx(), Y: b.Dy()})
	if err := s.Draw(b, fb, image.Point{}); err != nil {
		return err
	}
	return s.Halt()
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "ssd1681demo.yaml", "Path to config file")
	flag.StringVar(&cfg.spi, "spi", "", "SPI port name (overrides config if set)")
	flag.Var(&cfg.waveform, "waveform", "Waveform: full, partial or gray4 (overrides config if set)")
	flag.Var(&cfg.rotation, "rotation", "Rotation: 0, 90, 180 or 270 (overrides config if set)")
	flag.StringVar(&cfg.text, "text", "", "Text to draw (overrides config if set)")
	flag.IntVar(&cfg.partial, "partial", 0, "Count up this many times with partial refreshes")
	flag.BoolVar(&cfg.preview, "preview", false, "Also print the frame to the terminal")
	flag.BoolVar(&cfg.noHW, "nohw", false, "Print the frame to the terminal only; do not touch the panel")
	flag.StringVar(&cfg.logLevel, "log-level", "", "Log level: debug, info or error (overrides config if set)")

	flag.Parse()

	cfg.set = map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		cfg.set[f.Name] = true
	})
	return cfg
}

// applyFlags overrides cfg with the flags given on the command line.
func applyFlags(cfg *config.Config, flags flagConfig) {
	if flags.set["spi"] {
		cfg.SPI = flags.spi
	}
	if flags.set["waveform"] {
		cfg.Waveform = flags.waveform.String()
	}
	if flags.set["rotation"] {
		cfg.Rotation = flags.rotation.String()
	}
	if flags.set["text"] {
		cfg.Text = flags.text
	}
	if flags.set["preview"] {
		cfg.Preview = flags.preview
	}
	if flags.set["log-level"] {
		cfg.LogLevel = flags.logLevel
	}
	cfg.Normalize()
}

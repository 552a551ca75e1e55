// SPDX-License-Identifier: EPL-2.0

// Command sf2info prints the INFO list, presets, instruments and samples of
// a SoundFont, and can extract its samples as WAV files.
//
//	sf2info [-config sf2.yaml] [-zones] [-extract dir] font.sf2
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/sf2pbx/audio"
	"github.com/ik5/sf2pbx/formats/wav"
	"github.com/ik5/sf2pbx/internal/cli"
	"github.com/ik5/sf2pbx/sf2"
	"github.com/ik5/sf2pbx/sf2/entity"
	"github.com/ik5/sf2pbx/sf2/generator"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("sf2info: ")

	if err := run(os.Args[1:], os.Stdout, log.Default()); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer, logger *log.Logger) error {
	fs := flag.NewFlagSet("sf2info", flag.ContinueOnError)
	var (
		cfgPath = fs.String("config", "", "YAML configuration file")
		zones   = fs.Bool("zones", false, "print the generators of every zone")
		extract = fs.String("extract", "", "write every sample as a WAV file into this directory")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := cli.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	sf, path, err := cli.SoundFont(fs, cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	writeInfo(tw, path, sf.Info())
	writePresets(tw, sf, *zones)
	writeInstruments(tw, sf, *zones)
	writeSamples(tw, sf)
	if err := tw.Flush(); err != nil {
		return err
	}

	if *extract != "" {
		n, err := extractSamples(sf, *extract)
		if err != nil {
			return err
		}
		logger.Printf("extracted %d samples to %s", n, *extract)
	}
	return nil
}

func writeInfo(w io.Writer, path string, in entity.Info) {
	fmt.Fprintf(w, "File:\t%s\n", path)
	fmt.Fprintf(w, "Version:\t%d.%02d\n", in.Version.Major, in.Version.Minor)
	for _, f := range []struct{ name, v string }{
		{"Bank", in.BankName},
		{"Engine", in.SoundEngine},
		{"ROM", in.ROMName},
		{"Created", in.CreationDate},
		{"Engineers", in.Engineers},
		{"Product", in.Product},
		{"Copyright", in.Copyright},
		{"Comment", in.Comment},
		{"Tool", in.Tool},
	} {
		if f.v != "" {
			fmt.Fprintf(w, "%s:\t%s\n", f.name, strings.ReplaceAll(f.v, "\n", " "))
		}
	}
}

func zoneCount(c *sf2.ZoneCollection) string {
	if c.Global() != nil {
		return fmt.Sprintf("%d +global", c.Len())
	}
	return fmt.Sprint(c.Len())
}

func writePresets(w io.Writer, sf *sf2.SoundFont, zones bool) {
	instruments := sf.Instruments()
	fmt.Fprintf(w, "\nPresets (%d):\n", len(sf.Presets()))
	for _, p := range sf.Presets() {
		fmt.Fprintf(w, "  %03d:%03d\t%s\tzones %s\n", p.Bank(), p.Program(), p.Name(), zoneCount(p.Zones()))
		if !zones {
			continue
		}
		if g := p.Zones().Global(); g != nil {
			writeZone(w, "global", g)
		}
		for i := range p.Zones().Zones() {
			z := &p.Zones().Zones()[i]
			label := "?"
			if l := z.Link(); l >= 0 && l < len(instruments) {
				label = instruments[l].Name()
			}
			writeZone(w, label, z)
		}
	}
}

func writeInstruments(w io.Writer, sf *sf2.SoundFont, zones bool) {
	samples := sf.Samples()
	fmt.Fprintf(w, "\nInstruments (%d):\n", len(sf.Instruments()))
	for i, in := range sf.Instruments() {
		fmt.Fprintf(w, "  %d\t%s\tzones %s\n", i, in.Name(), zoneCount(in.Zones()))
		if !zones {
			continue
		}
		if g := in.Zones().Global(); g != nil {
			writeZone(w, "global", g)
		}
		for j := range in.Zones().Zones() {
			z := &in.Zones().Zones()[j]
			label := "?"
			if l := z.Link(); l >= 0 && l < len(samples) {
				label = samples[l].Name
			}
			writeZone(w, label, z)
		}
	}
}

func writeZone(w io.Writer, label string, z *sf2.Zone) {
	fmt.Fprintf(w, "    %s\tkeys %d-%d\tvel %d-%d\n", label,
		z.KeyRange().Low, z.KeyRange().High, z.VelocityRange().Low, z.VelocityRange().High)
	for _, g := range z.Generators() {
		switch g.Oper {
		case generator.KeyRange, generator.VelRange, generator.Instrument, generator.SampleID:
			continue
		}
		fmt.Fprintf(w, "      %s\t%s\n", g.Oper, generator.Def(g.Oper).Format(g.Amount))
	}
	for _, m := range z.Modulators() {
		fmt.Fprintf(w, "      mod\t%v\n", m)
	}
}

func writeSamples(w io.Writer, sf *sf2.SoundFont) {
	fmt.Fprintf(w, "\nSamples (%d):\n", len(sf.Samples()))
	for i, h := range sf.Samples() {
		loop := "-"
		if h.LoopValid() {
			loop = fmt.Sprintf("%d-%d", h.LoopStart-h.Start, h.LoopEnd-h.Start)
		}
		fmt.Fprintf(w, "  %d\t%s\t%d Hz\t%d frames\troot %d\tloop %s\t%s\n",
			i, h.Name, h.SampleRate, h.Frames(), h.OriginalKey, loop, h.Type)
	}
}

// extractSamples writes every sample with usable PCM into dir and returns
// how many were written.
func extractSamples(sf *sf2.SoundFont, dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	pcm := sf.PCM()
	depth := 16
	if pcm.Is24Bit() {
		depth = 24
	}

	n := 0
	for i, h := range sf.Samples() {
		if h.Type.IsROM() || h.SampleRate == 0 || h.End <= h.Start || int(h.End) > pcm.Len() {
			continue
		}
		buf := &goaudio.Float32Buffer{
			Format:         &goaudio.Format{NumChannels: 1, SampleRate: int(h.SampleRate)},
			SourceBitDepth: depth,
			Data:           make([]float32, h.End-h.Start),
		}
		for j := range buf.Data {
			buf.Data[j] = pcm.At(int(h.Start) + j)
		}

		in := &wav.Instrument{RootKey: int(h.OriginalKey)}
		if h.LoopValid() {
			in.Loops = []audio.Loop{{Start: int(h.LoopStart - h.Start), End: int(h.LoopEnd - h.Start)}}
		}

		path := filepath.Join(dir, fmt.Sprintf("%03d_%s.wav", i, fileName(h.Name)))
		if err := writeWAV(path, buf, wav.Options{BitDepth: depth, Instrument: in}); err != nil {
			return n, fmt.Errorf("sample %d %q: %w", i, h.Name, err)
		}
		n++
	}
	return n, nil
}

func writeWAV(path string, buf *goaudio.Float32Buffer, opts wav.Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wav.EncodeFloat(f, buf, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(name))
	if name == "" {
		return "sample"
	}
	return name
}

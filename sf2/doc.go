// SPDX-License-Identifier: EPL-2.0

/*
Package sf2 loads SoundFont 2 banks.

Load walks the RIFF structure, decodes the INFO, sdta and pdta lists and
resolves every preset and instrument into zones:

	sf, err := sf2.Load(buf)
	if err != nil {
		// errors.Is(err, sf2.ErrInvalidFile)
	}
	for _, p := range sf.Presets() {
		fmt.Println(p.Bank(), p.Program(), p.Name())
	}

# Loading

Three entry points share the same parser:
  - Load parses a complete file held in memory. The returned SoundFont
    keeps references into buf, so buf must not be modified afterwards.
  - LoadFile reads a file from disk.
  - LoadReader drains an io.Reader first.

Sniff only checks that a stream starts with a RIFF header of form type
sfbk, which is enough to pick a loader from a file of unknown type:

	if err := sf2.Sniff(f); err == nil {
		// looks like a SoundFont
	}

# Structure

A SoundFont exposes what a synthesizer needs:
  - Info: the INFO list (version, bank name, engineers, copyright and so on)
  - PCM: the sample pool as 16-bit words, extended to 24 bits when the
    file has an sm24 chunk
  - Samples: the sample headers, sentinel record excluded
  - Instruments: named zone collections that point at samples
  - Presets: named zone collections that point at instruments

Every collection has an optional global zone, which holds the values its
other zones start from, and ordered local zones. A zone without the terminal
generator (sampleID for instruments, instrument for presets) is global only
when it comes first; later ones are ignored.

# Presets and Lookup

Presets are sorted by bank and program. A Handle is the position of a preset
in that order, so it stays valid for the lifetime of the SoundFont:

	p, err := sf.Lookup(0, 0)
	if errors.Is(err, sf2.ErrUnknownPreset) {
		...
	}
	layers := p.Find(60, 100, nil)

Preset.Find returns the (preset zone, instrument zone) pairs sounding for a
key and velocity, including both global zones, which is what a voice needs
to layer generator and modulator values. It appends to dst and does not
allocate when dst has room.

# Error Handling

A file whose RIFF tree, INFO version or any of the nine pdta tables is
unreadable fails as a whole with an error that matches ErrInvalidFile; the
specific cause (ErrNotSoundFont, ErrMissingList, a chunk overrun, a record
size mismatch) is joined to it and can be tested with errors.Is.

Damage below that level is absorbed: a zone whose bag, generator, modulator,
sample or instrument reference falls outside the parsed tables is dropped
and the rest of the bank stays usable.

# Subpackages

  - chunk: RIFF chunk walking over a byte slice
  - entity: fixed-size pdta records and the INFO list
  - generator: generator operators, amounts, ranges and units
  - modulator: modulator sources, the default modulator table and layering
  - writer: builds SoundFont files in memory
*/
package sf2

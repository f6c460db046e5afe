package settings

import "fmt"

// Field is a one-byte enumeration in a settings body. Values[i] is stored as
// First+i.
type Field struct {
	Name    string
	Offset  int
	First   uint8
	Values  []string
	Default string
}

// Decode returns the value name stored as b.
func (f Field) Decode(b uint8) (string, error) {
	if b < f.First || int(b-f.First) >= len(f.Values) {
		return "", fmt.Errorf("%s: byte 0x%02x: %w", f.Name, b, ErrInvalidValue)
	}
	return f.Values[b-f.First], nil
}

// Encode returns the byte storing value.
func (f Field) Encode(value string) (uint8, error) {
	for i, v := range f.Values {
		if v == value {
			return f.First + uint8(i), nil
		}
	}
	return 0, fmt.Errorf("%s: %q (want one of %v): %w", f.Name, value, f.Values, ErrInvalidValue)
}

var (
	offOn         = []string{"off", "on"}
	offDarkBright = []string{"off", "dark", "bright"}
	oneToFive     = []string{"one", "two", "three", "four", "five"}
	unlockLock    = []string{"unlock", "lock"}
)

var mySettingFields = []Field{
	{"on_air_display", 8, 0x80, offOn, "on"},
	{"lcd_brightness", 9, 0x81, oneToFive, "three"},
	{"quantize", 10, 0x80, offOn, "on"},
	{"auto_cue_level", 11, 0x80, []string{
		"minus_36db", "minus_42db", "minus_48db", "minus_54db", "minus_60db",
		"minus_66db", "minus_72db", "minus_78db", "memory",
	}, "memory"},
	{"language", 12, 0x81, []string{
		"english", "french", "german", "italian", "dutch", "spanish", "russian",
		"korean", "chinese_simplified", "chinese_traditional", "japanese",
		"portuguese", "swedish", "czech", "hungarian", "danish", "greek", "turkish",
	}, "english"},
	{"jog_ring_brightness", 14, 0x80, offDarkBright, "bright"},
	{"jog_ring_indicator", 15, 0x80, offOn, "on"},
	{"slip_flashing", 16, 0x80, offOn, "on"},
	{"disc_slot_illumination", 20, 0x80, offDarkBright, "bright"},
	{"eject_lock", 21, 0x80, unlockLock, "unlock"},
	{"sync", 22, 0x80, offOn, "off"},
	{"play_mode", 23, 0x80, []string{"continue", "single"}, "single"},
	{"quantize_beat_value", 24, 0x80, []string{"one", "half", "quarter", "eighth"}, "one"},
	{"hotcue_autoload", 25, 0x80, []string{"off", "on", "rekordbox"}, "on"},
	{"hotcue_color", 26, 0x80, offOn, "off"},
	{"needle_lock", 29, 0x80, unlockLock, "lock"},
	{"time_mode", 32, 0x80, []string{"elapsed", "remain"}, "remain"},
	{"jog_mode", 33, 0x80, []string{"cdj", "vinyl"}, "vinyl"},
	{"auto_cue", 34, 0x80, offOn, "on"},
	{"master_tempo", 35, 0x80, offOn, "off"},
	{"tempo_range", 36, 0x80, []string{"six", "ten", "sixteen", "wide"}, "ten"},
	{"phase_meter", 37, 0x80, []string{"type1", "type2"}, "type1"},
}

var mySetting2Fields = []Field{
	{"vinyl_speed_adjust", 0, 0x80, []string{"touch_release", "touch", "release"}, "touch"},
	{"jog_display_mode", 1, 0x80, []string{"auto", "info", "simple", "artwork"}, "auto"},
	{"pad_button_brightness", 2, 0x81, oneToFive[:4], "three"},
	{"jog_lcd_brightness", 3, 0x81, oneToFive, "three"},
	{"waveform_divisions", 4, 0x80, []string{"time_scale", "phrase"}, "phrase"},
	{"waveform", 10, 0x80, []string{"waveform", "phase_meter"}, "waveform"},
	{"beat_jump_beat_value", 12, 0x80, []string{
		"half", "one", "two", "four", "eight", "sixteen", "thirtytwo", "sixtyfour",
	}, "sixteen"},
}

var djmMySettingFields = []Field{
	{"channel_fader_curve", 12, 0x80, []string{"steep_top", "linear", "steep_bottom"}, "linear"},
	{"cross_fader_curve", 13, 0x80, []string{"constant", "slow_cut", "fast_cut"}, "fast_cut"},
	{"headphones_pre_eq", 14, 0x80, []string{"post_eq", "pre_eq"}, "post_eq"},
	{"headphones_mono_split", 15, 0x80, []string{"stereo", "mono_split"}, "stereo"},
	{"beat_fx_quantize", 16, 0x80, offOn, "on"},
	{"mic_low_cut", 17, 0x80, offOn, "on"},
	{"talk_over_mode", 18, 0x80, []string{"advanced", "normal"}, "advanced"},
	{"talk_over_level", 19, 0x80, []string{"minus_24db", "minus_18db", "minus_12db", "minus_6db"}, "minus_18db"},
	{"midi_channel", 20, 0x80, []string{
		"one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	}, "one"},
	{"midi_button_type", 21, 0x80, []string{"toggle", "trigger"}, "toggle"},
	{"display_brightness", 22, 0x80, []string{"white", "one", "two", "three", "four", "five"}, "five"},
	{"indicator_brightness", 23, 0x80, []string{"one", "two", "three"}, "three"},
	{"channel_fader_curve_long", 24, 0x80, []string{"exponential", "smooth", "linear"}, "exponential"},
}

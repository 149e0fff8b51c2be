package cast

// macRomanHigh maps byte values 0x80-0xFF to their Unicode code points
// under the classic Mac OS Roman encoding. Bytes 0x00-0x7F are identical
// to ASCII.
var macRomanHigh = [128]rune{
	'Ä', 'Å', 'Ç', 'É', 'Ñ', 'Ö', 'Ü', 'á',
	'à', 'â', 'ä', 'ã', 'å', 'ç', 'é', 'è',
	'ê', 'ë', 'í', 'ì', 'î', 'ï', 'ñ', 'ó',
	'ò', 'ô', 'ö', 'õ', 'ú', 'ù', 'û', 'ü',
	'†', '°', '¢', '£', '§', '•', '¶', 'ß',
	'®', '©', '™', '´', '¨', '≠', 'Æ', 'Ø',
	'∞', '±', '≤', '≥', '¥', 'µ', '∂', '∑',
	'∏', 'π', '∫', 'ª', 'º', 'Ω', 'æ', 'ø',
	'¿', '¡', '¬', '√', 'ƒ', '≈', '∆', '«',
	'»', '…', ' ', 'À', 'Ã', 'Õ', 'Œ', 'œ',
	'–', '—', '“', '”', '‘', '’', '÷', '◊',
	'ÿ', 'Ÿ', '⁄', '€', '‹', '›', 'ﬁ', 'ﬂ',
	'‡', '·', '‚', '„', '‰', 'Â', 'Ê', 'Á',
	'Ë', 'È', 'Í', 'Î', 'Ï', 'Ì', 'Ó', 'Ô',
	'', 'Ò', 'Ú', 'Û', 'Ù', 'ı', 'ˆ', '˜',
	'¯', '˘', '˙', '˚', '¸', '˝', '˛', 'ˇ',
}

// DecodeMacRoman converts a byte string in MacRoman encoding to UTF-8.
// s is expected to already be a Go string of raw bytes
// (one byte per rune slot); only the low byte of each rune is used.
func DecodeMacRoman(s string) string {
	bs := []byte(s)
	out := make([]rune, 0, len(bs))
	for _, b := range bs {
		if b < 0x80 {
			out = append(out, rune(b))
			continue
		}
		out = append(out, macRomanHigh[b-0x80])
	}
	return string(out)
}

package font

// AdobeStandardLatin lists the 229 characters of the Adobe Standard Latin
// character set.
var AdobeStandardLatin = map[rune]bool{
	' ':      true,
	'\u00a0': true, // no-break space
	'_':      true,
	'-':      true,
	'–':      true,
	'—':      true,
	',':      true,
	';':      true,
	':':      true,
	'!':      true,
	'¡':      true,
	'?':      true,
	'¿':      true,
	'…':      true,
	'.':      true,
	'·':      true,
	'‘':      true,
	'’':      true,
	'‚':      true,
	'‹':      true,
	'›':      true,
	'"':      true,
	'“':      true,
	'”':      true,
	'„':      true,
	'«':      true,
	'»':      true,
	'(':      true,
	')':      true,
	'[':      true,
	']':      true,
	'{':      true,
	'}':      true,
	'§':      true,
	'¶':      true,
	'@':      true,
	'*':      true,
	'/':      true,
	'\'':     true,
	'\\':     true,
	'&':      true,
	'#':      true,
	'%':      true,
	'‰':      true,
	'†':      true,
	'‡':      true,
	'•':      true,
	'`':      true,
	'´':      true,
	'˜':      true,
	'^':      true,
	'¯':      true,
	'˘':      true,
	'˙':      true,
	'¨':      true,
	'˚':      true,
	'˝':      true,
	'¸':      true,
	'˛':      true,
	'ˆ':      true,
	'ˇ':      true,
	'°':      true,
	'©':      true,
	'®':      true,
	'+':      true,
	'±':      true,
	'÷':      true,
	'×':      true,
	'<':      true,
	'=':      true,
	'>':      true,
	'¬':      true,
	'|':      true,
	'¦':      true,
	'~':      true,
	'−':      true,
	'⁄':      true,
	'¤':      true,
	'¢':      true,
	'$':      true,
	'£':      true,
	'¥':      true,
	'€':      true,
	'0':      true,
	'1':      true,
	'¹':      true,
	'½':      true,
	'¼':      true,
	'2':      true,
	'²':      true,
	'3':      true,
	'³':      true,
	'¾':      true,
	'4':      true,
	'5':      true,
	'6':      true,
	'7':      true,
	'8':      true,
	'9':      true,
	'a':      true,
	'A':      true,
	'ª':      true,
	'á':      true,
	'Á':      true,
	'à':      true,
	'À':      true,
	'â':      true,
	'Â':      true,
	'å':      true,
	'Å':      true,
	'ä':      true,
	'Ä':      true,
	'ã':      true,
	'Ã':      true,
	'æ':      true,
	'Æ':      true,
	'b':      true,
	'B':      true,
	'c':      true,
	'C':      true,
	'ç':      true,
	'Ç':      true,
	'd':      true,
	'D':      true,
	'ð':      true,
	'Ð':      true,
	'e':      true,
	'E':      true,
	'é':      true,
	'É':      true,
	'è':      true,
	'È':      true,
	'ê':      true,
	'Ê':      true,
	'ë':      true,
	'Ë':      true,
	'f':      true,
	'F':      true,
	'ﬁ':      true,
	'ﬂ':      true,
	'ƒ':      true,
	'g':      true,
	'G':      true,
	'h':      true,
	'H':      true,
	'i':      true,
	'I':      true,
	'í':      true,
	'Í':      true,
	'ì':      true,
	'Ì':      true,
	'î':      true,
	'Î':      true,
	'ï':      true,
	'Ï':      true,
	'ı':      true,
	'j':      true,
	'J':      true,
	'k':      true,
	'K':      true,
	'l':      true,
	'L':      true,
	'ł':      true,
	'Ł':      true,
	'm':      true,
	'M':      true,
	'n':      true,
	'N':      true,
	'ñ':      true,
	'Ñ':      true,
	'o':      true,
	'O':      true,
	'º':      true,
	'ó':      true,
	'Ó':      true,
	'ò':      true,
	'Ò':      true,
	'ô':      true,
	'Ô':      true,
	'ö':      true,
	'Ö':      true,
	'õ':      true,
	'Õ':      true,
	'ø':      true,
	'Ø':      true,
	'œ':      true,
	'Œ':      true,
	'p':      true,
	'P':      true,
	'q':      true,
	'Q':      true,
	'r':      true,
	'R':      true,
	's':      true,
	'S':      true,
	'š':      true,
	'Š':      true,
	'ß':      true,
	't':      true,
	'T':      true,
	'™':      true,
	'u':      true,
	'U':      true,
	'ú':      true,
	'Ú':      true,
	'ù':      true,
	'Ù':      true,
	'û':      true,
	'Û':      true,
	'ü':      true,
	'Ü':      true,
	'v':      true,
	'V':      true,
	'w':      true,
	'W':      true,
	'x':      true,
	'X':      true,
	'y':      true,
	'Y':      true,
	'ý':      true,
	'Ý':      true,
	'ÿ':      true,
	'Ÿ':      true,
	'z':      true,
	'Z':      true,
	'ž':      true,
	'Ž':      true,
	'þ':      true,
	'Þ':      true,
	'µ':      true,
}

package classfile

import "strconv"

// Major versions before Java 5 used the "1.x" release names.
var legacyReleases = map[uint16]string{
	45: "1.1",
	46: "1.2",
	47: "1.3",
	48: "1.4",
}

const (
	firstModernMajor = 49 // Java 5
	// MaxKnownMajor is the newest class file version this build knows about
	// (Java 25).
	MaxKnownMajor = 69
	// previewMinor marks a class compiled with --enable-preview.
	previewMinor = 0xFFFF
)

// JavaRelease maps a major version to the Java SE release that introduced
// it: 52 -> "8", 61 -> "17". Unknown versions return "".
func JavaRelease(major uint16) string {
	if r, ok := legacyReleases[major]; ok {
		return r
	}
	if major >= firstModernMajor && major <= MaxKnownMajor {
		return strconv.Itoa(int(major) - 44)
	}
	return ""
}

// Release returns the Java SE release of the class file, "" if unknown.
func (cf *ClassFile) Release() string { return JavaRelease(cf.MajorVersion) }

// Preview reports whether the class depends on preview features.
func (cf *ClassFile) Preview() bool {
	return cf.MajorVersion >= 56 && cf.MinorVersion == previewMinor
}

// Package histogram turns JVM object histograms into weighted trees.
//
// A histogram is a list of [Record] values, one per class, carrying the
// number of live instances and their total size in bytes. [ToTree] splits
// each class name on dots and builds one node per package segment, so a
// record for java.lang.String becomes the leaf String under java > lang,
// weighted by its total size.
//
// # Input formats
//
// [Parse] accepts two line formats, which may be mixed:
//
//	java.lang.String, 1200, 28800            # class, instances, bytes
//	   1:          1200          28800  java.lang.String   # jmap -histo
//
// Blank lines, lines starting with '#', and the jmap header and total lines
// are skipped.
//
// # Class names
//
// Array and primitive class names use JVM field descriptors. [DecodeDescriptor]
// turns them into source form, e.g. "[I" into "int[]" and
// "[[Ljava/lang/String;" into "java.lang.String[][]".
package histogram

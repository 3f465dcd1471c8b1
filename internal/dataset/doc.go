// Package dataset reorganizes a flat directory of image/label pairs into the
// split layout expected by YOLO object-detection training:
//
//	<root>/images/train/<id>.jpg
//	<root>/images/val/<id>.jpg
//	<root>/labels/train/<id>.txt
//	<root>/labels/val/<id>.txt
//
// A Splitter reads one manifest per split and copies every listed pair whose
// image and label both exist in the source directory. Pairs with a missing
// file are skipped with a console diagnostic; the run continues.
//
// Work is strictly sequential. Two runs writing the same output tree race
// on the destination files (last writer wins).
package dataset

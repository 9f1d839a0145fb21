// Package enrich adds optional metadata to Found verdicts after the scan.
//
// The only enrichment today is avatar EXIF extraction: for sites that
// declare an avatar URL, the profile image is fetched and its EXIF tags
// (camera, software, GPS, timestamps) are attached to the verdict. The
// pass is strictly best effort; it mutates metadata but never changes a
// verdict kind and never fails the run.
package enrich

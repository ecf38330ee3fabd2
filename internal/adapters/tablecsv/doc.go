// Package tablecsv persists archive results and census tables as flat CSV files
// and reads them back.
//
// Every value is text on disk and stays text when read; nothing is coerced
// back to a number. A CRLF inside a quoted value reads back as LF. Writes go to a ".part" sibling and are renamed into place,
// so a failed run never leaves a half-written file under the final name.
package tablecsv

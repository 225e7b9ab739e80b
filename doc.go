// Copyright 2026 awakening-overlay. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package uploader is the root of overlay-uploader, a command line tool that appends overlay data to a Google Sheets worksheet on behalf of a desktop user.

overlay-uploader authorises access to the Google Sheets API using the OAuth2 installed application flow,
caching the tokens in ~/.awakening_overlay_uploader/token.json, and appends rows or columns of cells starting
at the first empty row of the worksheet. Rate limited writes are retried with exponential backoff.

overlay-uploader supports the following commands:

  - run, (the default) to check access to the spreadsheet and report the first empty row
  - authorise, to authorise application access to Google Sheets
  - append, to append the rows of a TSV file to the worksheet
  - append-column, to append the lines of a TSV file to a single column of the worksheet
  - version, to display the current version
*/
package uploader

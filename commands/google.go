package commands

import (
	"context"
	"fmt"

	"github.com/awakening-overlay/overlay-uploader/auth"
	"github.com/awakening-overlay/overlay-uploader/uploader"
)

var openBrowser = auth.OpenBrowser

func sheetURL(spreadsheet string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", spreadsheet)
}

// preflight fetches the spreadsheet metadata to check that the spreadsheet exists
// and is accessible. Permission and not-found errors open the spreadsheet in the
// browser so that the user can request access or check the ID.
func preflight(ctx context.Context, client *uploader.Client, spreadsheet string) error {
	_, err := client.Spreadsheet(ctx, spreadsheet)

	switch {
	case err == nil:
		return nil

	case uploader.IsForbidden(err):
		url := sheetURL(spreadsheet)

		fmt.Println()
		fmt.Println("  You do not have permission to access the spreadsheet. Please ask the owner to share")
		fmt.Println("  it with your Google account or request access from the page opened in your browser:")
		fmt.Println()
		fmt.Printf("    %s\n", url)
		fmt.Println()

		remediate(url)

		return fmt.Errorf("permission denied accessing spreadsheet %s (%w)", spreadsheet, uploader.ErrForbidden)

	case uploader.IsNotFound(err):
		url := sheetURL(spreadsheet)

		fmt.Println()
		fmt.Println("  The spreadsheet was not found. Please check that the spreadsheet ID is correct and")
		fmt.Println("  that the spreadsheet has not been deleted:")
		fmt.Println()
		fmt.Printf("    %s\n", url)
		fmt.Println()

		remediate(url)

		return fmt.Errorf("spreadsheet %s not found (%w)", spreadsheet, uploader.ErrNotFound)

	default:
		return fmt.Errorf("unable to retrieve spreadsheet %s (%w)", spreadsheet, err)
	}
}

func remediate(url string) {
	if err := openBrowser(url); err != nil {
		warnf("Could not open %s in your browser (%v)", url, err)
	}
}

// Command gdrive-token runs the one-time interactive OAuth flow for the
// Google Drive backup destination. Run it locally once, then store the
// printed refresh token as a secret.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"

	"github.com/mduse88/family-expenses/internal/gdrive"
)

// The redirect URI http://localhost:8080/callback must be listed in the
// OAuth client's authorized redirect URIs.
const redirectPort = "8080"

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: gdrive-token <path-to-credentials.json>")
		fmt.Fprintln(os.Stderr, "\nExample: gdrive-token ~/Downloads/client_secret_123.json")
		os.Exit(1)
	}
	credentialsFile := os.Args[1]

	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read credentials file: %v\n", err)
		fmt.Fprintln(os.Stderr, "\nDownload the OAuth credentials JSON from Google Cloud Console:")
		fmt.Fprintln(os.Stderr, "  APIs & Services -> Credentials -> your OAuth 2.0 Client ID -> Download JSON")
		os.Exit(1)
	}

	creds, err := gdrive.ParseClientCredentials(b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := google.ConfigFromJSON(b, drive.DriveFileScope)
	if err != nil {
		log.Fatalf("oauth config: %v", err)
	}
	cfg.RedirectURL = "http://localhost:" + redirectPort + "/callback"

	fmt.Println("\n=== Google Drive OAuth Setup ===")
	fmt.Printf("Client ID: %s\n", creds.ClientID)
	if creds.ProjectID != "" {
		fmt.Printf("Project:   %s\n", creds.ProjectID)
	}

	codeCh := make(chan string, 1)
	srv := &http.Server{Addr: ":" + redirectPort}
	http.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errStr := r.URL.Query().Get("error"); errStr != "" {
			http.Error(w, "OAuth error: "+errStr, http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		fmt.Fprintln(w, "You may close this window and return to the terminal.")
		codeCh <- code
		go func() { time.Sleep(500 * time.Millisecond); _ = srv.Close() }()
	})
	go func() { _ = srv.ListenAndServe() }()

	// ApprovalForce makes Google issue a refresh token even when the user
	// authorized this client before.
	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Printf("\nOpen this URL to authorize:\n%s\n", url)

	select {
	case code := <-codeCh:
		tok, err := cfg.Exchange(context.Background(), code)
		if err != nil {
			log.Fatalf("token exchange: %v", err)
		}
		if tok.RefreshToken == "" {
			log.Fatalf("no refresh token returned; revoke access at https://myaccount.google.com/permissions and retry")
		}

		fmt.Println("\nSUCCESS! Authorization complete.")
		fmt.Println("\nAdd these to your secrets store:")
		fmt.Printf("\nGDRIVE_CLIENT_ID:\n%s\n", creds.ClientID)
		fmt.Printf("\nGDRIVE_CLIENT_SECRET:\n%s\n", creds.ClientSecret)
		fmt.Printf("\nGDRIVE_REFRESH_TOKEN:\n%s\n", tok.RefreshToken)
	case <-time.After(5 * time.Minute):
		log.Fatalf("authorization timed out")
	case <-signalChan():
		log.Fatalf("interrupted")
	}
}

func signalChan() <-chan os.Signal {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	return c
}

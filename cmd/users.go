package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/facecodec"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	Long: `List registered users and whether their stored face encoding is usable.

Users marked "corrupt" or "missing" are skipped during attendance and
removed by the repair command.`,
	Args: cobra.NoArgs,
	RunE: runUsers,
}

func init() {
	rootCmd.AddCommand(usersCmd)

	usersCmd.Flags().Bool("json", false, "Output as JSON")
}

// UserInfo is one row of the users command output
type UserInfo struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Encoding string `json:"encoding"`
	Dim      int    `json:"dim,omitempty"`
}

// describeUsers checks every user's encoding against codec.
func describeUsers(users []database.User, codec facecodec.Codec) []UserInfo {
	out := make([]UserInfo, 0, len(users))
	for _, u := range users {
		info := UserInfo{ID: u.ID, Name: u.Name}
		enc, err := codec.DecodeNullable(u.RawEncoding)
		switch {
		case u.RawEncoding == nil:
			info.Encoding = "missing"
		case errors.Is(err, facecodec.ErrInvalid):
			info.Encoding = "corrupt"
		default:
			info.Encoding = "ok"
			info.Dim = enc.Dim()
		}
		out = append(out, info)
	}
	return out
}

func runUsers(cmd *cobra.Command, args []string) error {
	jsonOutput := mustGetBool(cmd, "json")
	cfg := loadConfig()

	ctx := context.Background()
	store, err := openStore(ctx, cfg, newLogger(cfg, os.Stderr))
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.LoadAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}
	infos := describeUsers(users, facecodec.New(cfg.Face.EncodingDim))

	if jsonOutput {
		return outputJSON(infos)
	}

	if len(infos) == 0 {
		fmt.Println("No users registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tENCODING")
	for _, u := range infos {
		fmt.Fprintf(w, "%d\t%s\t%s\n", u.ID, u.Name, u.Encoding)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("\n%d users\n", len(infos))
	return nil
}

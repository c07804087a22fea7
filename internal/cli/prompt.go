package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/banned104/lorakeep/internal/config"
	"github.com/banned104/lorakeep/internal/models"
	"github.com/banned104/lorakeep/internal/promptvault"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Manage the prompt notes vault",
	Long: `Manage the vault of free-text prompt notes.

Each note has a title, the prompt text, and optional image attachments.
The vault is stored next to the model cache and exports to a zip
archive with the images as files.`,
}

var (
	promptAddTitle     string
	promptAddImages    []string
	promptFromClipLoad bool
)

var promptAddCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Add a prompt note",
	Long: `Add a prompt note. The arguments become the prompt text; with
--from-clipboard the text is read from the clipboard instead.

--image attaches an image file (repeatable). Accepted formats: jpeg,
png, gif, webp, bmp, up to 10 MiB each.`,
	RunE: runPromptAdd,
}

var promptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every prompt note",
	RunE:  runPromptList,
}

var promptSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search prompt notes by title or text",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptSearch,
}

var promptUpdateTitle string

var promptUpdateCmd = &cobra.Command{
	Use:   "update <id> [text...]",
	Short: "Replace a prompt note's text",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPromptUpdate,
}

var promptRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a prompt note",
	Args:  cobra.ExactArgs(1),
	RunE:  runPromptRm,
}

var promptExportOut string

var promptExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the vault to a zip archive",
	RunE:  runPromptExport,
}

var promptImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import prompt notes from a zip archive",
	Long: `Import a zip archive produced by 'prompt export'. Imported notes and
their images get fresh ids, so importing never collides with existing
notes.`,
	Args: cobra.ExactArgs(1),
	RunE: runPromptImport,
}

func init() {
	promptAddCmd.Flags().StringVar(&promptAddTitle, "title", "", "note title")
	promptAddCmd.Flags().StringSliceVar(&promptAddImages, "image", nil, "attach an image file (repeatable)")
	promptAddCmd.Flags().BoolVar(&promptFromClipLoad, "from-clipboard", false, "read the prompt text from the clipboard")
	promptUpdateCmd.Flags().StringVar(&promptUpdateTitle, "title", "", "new note title")
	promptExportCmd.Flags().StringVar(&promptExportOut, "out", "", "output file path (default under ~/.lorakeep/exports)")

	promptCmd.AddCommand(promptAddCmd)
	promptCmd.AddCommand(promptListCmd)
	promptCmd.AddCommand(promptSearchCmd)
	promptCmd.AddCommand(promptUpdateCmd)
	promptCmd.AddCommand(promptRmCmd)
	promptCmd.AddCommand(promptExportCmd)
	promptCmd.AddCommand(promptImportCmd)
}

func openVault() (*promptvault.Store, func(), error) {
	_, slots, _, err := openStores()
	if err != nil {
		return nil, nil, err
	}
	closer := func() { _ = slots.Close() }
	return promptvault.New(slots), closer, nil
}

func runPromptAdd(cmd *cobra.Command, args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if promptFromClipLoad {
		clip, err := clipboard.ReadAll()
		if err != nil {
			return fmt.Errorf("read clipboard: %w", err)
		}
		text = strings.TrimSpace(clip)
	}
	if text == "" {
		return fmt.Errorf("no prompt text given")
	}

	var images []models.PromptImage
	for _, path := range promptAddImages {
		img, err := promptvault.NewImageFromFile(path)
		if err != nil {
			return fmt.Errorf("attach %s: %w", path, err)
		}
		images = append(images, img)
	}

	vault, closer, err := openVault()
	if err != nil {
		return err
	}
	defer closer()

	entry, err := vault.Add(promptAddTitle, text, images)
	if err != nil {
		return fmt.Errorf("save prompt: %w", err)
	}

	fmt.Printf("Added prompt %s", entry.ID)
	if len(images) > 0 {
		fmt.Printf(" with %d image(s)", len(images))
	}
	fmt.Println(".")
	return nil
}

func runPromptList(cmd *cobra.Command, args []string) error {
	vault, closer, err := openVault()
	if err != nil {
		return err
	}
	defer closer()

	prompts, _ := vault.Load()
	if len(prompts) == 0 {
		fmt.Println("No prompt notes.")
		return nil
	}

	fmt.Printf("PROMPTS (%d)\n", len(prompts))
	fmt.Println("──────────────────────────────────────────────────")
	for _, p := range prompts {
		printPromptSummary(&p)
	}
	return nil
}

func runPromptSearch(cmd *cobra.Command, args []string) error {
	vault, closer, err := openVault()
	if err != nil {
		return err
	}
	defer closer()

	hits := vault.Search(args[0])
	if len(hits) == 0 {
		fmt.Println("No prompt notes matched.")
		return nil
	}

	for _, p := range hits {
		printPromptSummary(&p)
	}
	return nil
}

func printPromptSummary(p *models.PromptEntry) {
	title := p.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Printf("  %s  %s\n", p.ID, title)

	text := p.Prompt
	if len(text) > 70 {
		text = text[:70] + "..."
	}
	fmt.Printf("    %s\n", text)
	if len(p.Images) > 0 {
		fmt.Printf("    %d image(s)\n", len(p.Images))
	}
	if p.UpdatedAt > 0 {
		fmt.Printf("    updated %s\n", formatTimeSince(time.UnixMilli(p.UpdatedAt)))
	}
}

func runPromptUpdate(cmd *cobra.Command, args []string) error {
	id := args[0]
	text := strings.TrimSpace(strings.Join(args[1:], " "))

	vault, closer, err := openVault()
	if err != nil {
		return err
	}
	defer closer()

	title := promptUpdateTitle
	if title == "" || text == "" {
		// Keep fields the caller didn't supply
		existing, _ := vault.Load()
		for _, p := range existing {
			if p.ID == id {
				if title == "" {
					title = p.Title
				}
				if text == "" {
					text = p.Prompt
				}
				break
			}
		}
	}

	if !vault.Update(id, title, text) {
		return fmt.Errorf("prompt %s not found", id)
	}
	fmt.Printf("Updated prompt %s.\n", id)
	return nil
}

func runPromptRm(cmd *cobra.Command, args []string) error {
	vault, closer, err := openVault()
	if err != nil {
		return err
	}
	defer closer()

	if !vault.Delete(args[0]) {
		return fmt.Errorf("prompt %s not found", args[0])
	}
	fmt.Printf("Deleted prompt %s.\n", args[0])
	return nil
}

func runPromptExport(cmd *cobra.Command, args []string) error {
	cfg, slots, _, err := openStores()
	if err != nil {
		return err
	}
	defer func() { _ = slots.Close() }()

	vault := promptvault.New(slots)
	prompts, _ := vault.Load()
	if len(prompts) == 0 {
		return fmt.Errorf("no prompt notes to export")
	}

	outPath := promptExportOut
	if outPath == "" {
		filename := fmt.Sprintf("prompts_%s.zip", time.Now().Format("2006-01-02"))
		outPath = filepath.Join(config.GetPaths(cfg).Exports, filename)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer func() { _ = f.Close() }()

	if err := promptvault.ExportZip(prompts, f); err != nil {
		_ = os.Remove(outPath)
		return fmt.Errorf("export prompts: %w", err)
	}

	fmt.Printf("Exported %d prompt(s) to %s.\n", len(prompts), outPath)
	return nil
}

func runPromptImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	imported, err := promptvault.ImportZip(f, info.Size())
	if err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}
	if len(imported) == 0 {
		return fmt.Errorf("archive holds no prompts")
	}

	vault, closer, err := openVault()
	if err != nil {
		return err
	}
	defer closer()

	existing, _ := vault.Load()
	if err := vault.Save(append(imported, existing...)); err != nil {
		return fmt.Errorf("save prompts: %w", err)
	}

	fmt.Printf("Imported %d prompt(s).\n", len(imported))
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	blaaiz "github.com/blaaiz/blaaiz-go"
	"github.com/blaaiz/blaaiz-go/config"
	"github.com/blaaiz/blaaiz-go/types"
	"github.com/spf13/cobra"
)

type cliOptions struct {
	apiKey  string
	baseURL string
	timeout time.Duration
}

// newClient builds an SDK client from flags, falling back to BLAAIZ_* variables
func (o *cliOptions) newClient() (*blaaiz.Blaaiz, error) {
	if o.apiKey == "" {
		conf, err := config.ClientConfig()
		if err != nil {
			return nil, err
		}
		o.apiKey = conf.APIKey
		if o.baseURL == "" {
			o.baseURL = conf.BaseURL
		}
	}

	opts := []config.ClientOption{}
	if o.baseURL != "" {
		opts = append(opts, config.WithBaseURL(o.baseURL))
	}
	if o.timeout > 0 {
		opts = append(opts, config.WithTimeout(o.timeout))
	}
	return blaaiz.New(o.apiKey, opts...)
}

func newRootCommand(out io.Writer) *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "upload_demo",
		Short:         "Upload customer documents to Blaaiz",
		SilenceUsage:  true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Blaaiz API key (default $BLAAIZ_API_KEY)")
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Blaaiz API base URL (default $BLAAIZ_BASE_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "request timeout")

	root.AddCommand(newUploadCommand(opts), newPresignCommand(opts))
	return root
}

func newUploadCommand(opts *cliOptions) *cobra.Command {
	var (
		customerID  string
		category    string
		file        string
		filename    string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a document and attach it to a customer",
		Long: `Upload a document in one step: request an upload slot, transfer the
bytes and attach the file to the customer.

--file accepts a local path, an http(s) URL, a data: URL or base64 text.

Examples:
  upload_demo upload --customer cus_1 --category identity --file ./passport.jpg
  upload_demo upload --customer cus_1 --category proof_of_address --file https://example.com/bill.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}

			content, localName, err := loadFileContent(file)
			if err != nil {
				return err
			}
			if filename == "" {
				filename = localName
			}

			result, err := client.Customers.UploadFileComplete(cmd.Context(), customerID, &types.FileUploadRequest{
				File:         content,
				FileCategory: types.FileCategory(category),
				Filename:     filename,
				ContentType:  contentType,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "file_id: %s\npresigned_url: %s\n", result.FileID, result.PresignedURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&customerID, "customer", "", "customer ID")
	cmd.Flags().StringVar(&category, "category", string(types.FileCategoryIdentity), "identity, proof_of_address or liveness_check")
	cmd.Flags().StringVar(&file, "file", "", "path, URL, data URL or base64 content")
	cmd.Flags().StringVar(&filename, "filename", "", "filename to store")
	cmd.Flags().StringVar(&contentType, "content-type", "", "content type to store")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newPresignCommand(opts *cliOptions) *cobra.Command {
	var (
		customerID string
		category   string
	)

	cmd := &cobra.Command{
		Use:   "presign",
		Short: "Request an upload URL without uploading",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.newClient()
			if err != nil {
				return err
			}

			res, err := client.Files.GetPresignedURL(cmd.Context(), &types.PresignedURLPayload{
				CustomerID:   customerID,
				FileCategory: types.FileCategory(category),
			})
			if err != nil {
				return err
			}

			url, _ := res.String("data", "url")
			fileID, _ := res.String("data", "file_id")
			fmt.Fprintf(cmd.OutOrStdout(), "file_id: %s\npresigned_url: %s\n", fileID, url)
			return nil
		},
	}

	cmd.Flags().StringVar(&customerID, "customer", "", "customer ID")
	cmd.Flags().StringVar(&category, "category", string(types.FileCategoryIdentity), "identity, proof_of_address or liveness_check")
	_ = cmd.MarkFlagRequired("customer")
	return cmd
}

// loadFileContent reads local files into memory, returning the base name as
// well, and classifies anything else
func loadFileContent(value string) (types.FileContent, string, error) {
	if info, err := os.Stat(value); err == nil && !info.IsDir() {
		data, err := os.ReadFile(value)
		if err != nil {
			return nil, "", fmt.Errorf("read %s: %w", value, err)
		}
		return types.RawBytes(data), filepath.Base(value), nil
	}
	return types.FileContentFromString(value), "", nil
}

package validate

import (
	"fmt"
	"path/filepath"

	"github.com/gruppe-adler/terrain-dat/internal/utils"
)

// InputFile validates that given path is an existing file
func InputFile(filePath string) error {
	if !utils.IsFile(filePath) {
		return fmt.Errorf("%s does not exist or is no file", filePath)
	}
	return nil
}

// OutputDirectory validates that given directory exists
func OutputDirectory(dirPath string) error {
	if !utils.IsDirectory(dirPath) {
		return fmt.Errorf("output directory %s doesn't exist", dirPath)
	}
	return nil
}

// OutputFile validates that the directory given file will be written to exists
func OutputFile(filePath string) error {
	if utils.IsDirectory(filePath) {
		return fmt.Errorf("%s is a directory", filePath)
	}
	return OutputDirectory(filepath.Dir(filePath))
}

// Paths validates the input file and the output directory of a subcommand
func Paths(inputPath, outputDirectory string) error {
	if err := InputFile(inputPath); err != nil {
		return err
	}
	return OutputDirectory(outputDirectory)
}

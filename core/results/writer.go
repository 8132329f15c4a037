package results

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// checkFileExists is a simple stat check to ensure that the file
// exists at the given path.
func checkFileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// checkIsRegular checks if the file is a regular file, else it's a special
// file (that can't be copied)
func checkIsRegular(path string) bool {
	stat, err := os.Stat(path)
	if err != nil {
		return false
	}

	return stat.Mode().IsRegular()
}

// copyFile copies a file from the source to the destination.
// Note: It can only copy regular files.
func copyFile(fromPath string, toPath string) error {
	// Make sure we can copy the configurations
	if !checkIsRegular(fromPath) {
		return fmt.Errorf("%s is not a regular file that can be copied", fromPath)
	}

	// Open and check the files
	source, err := os.Open(fromPath)
	if err != nil {
		return err
	}
	defer source.Close()

	dest, err := os.Create(toPath)
	if err != nil {
		return err
	}
	defer dest.Close()

	_, err = io.Copy(dest, source)

	return err
}

// WriteJSON encodes the report as indented JSON.
func WriteJSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")

	return enc.Encode(report)
}

// writeResults marshals the data into JSON and writes the result as a JSON file
func writeResults(path string, report *Report) error {
	f, err := json.MarshalIndent(report, "", " ")

	if err != nil {
		return err
	}

	return os.WriteFile(path, f, 0644)
}

// resultPrefix names the files of a run after its start time and run id.
func resultPrefix(report *Report) string {
	id := report.RunID
	if len(id) > 8 {
		id = id[:8]
	}

	return report.Started.Format("2006-01-02T15-04-05") + "_" + id
}

// WriteResultsToFile is dedicated to bundle all result information into a
// given directory, writing the results to a JSON as well as the
// configuration files used by the run. Empty configuration paths are skipped.
// It returns the path of the JSON file.
func WriteResultsToFile(report *Report, resultDir string, configPaths ...string) (string, error) {
	// First, check that the directory exists
	if !checkFileExists(resultDir) {
		err := os.MkdirAll(resultDir, 0755)
		if err != nil {
			return "", err
		}
	}

	prefix := resultPrefix(report)
	resultPath := filepath.Join(resultDir, prefix+"_results.json")

	// Write the results to file
	err := writeResults(resultPath, report)
	if err != nil {
		return "", err
	}

	for _, p := range configPaths {
		if len(p) == 0 {
			continue
		}

		err = copyFile(p, filepath.Join(resultDir, prefix+"_"+filepath.Base(p)))
		if err != nil {
			return "", err
		}
	}

	return resultPath, nil
}

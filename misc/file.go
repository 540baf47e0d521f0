package misc

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func ReadFile(fileName string) ([]byte, error) {
	if fileName == "" {
		return nil, errors.New("no filename supplied")
	}
	// open file for reading
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s - %w", fileName, err)
	}
	// read contents from open file
	fileBytes, err := io.ReadAll(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("unable to read %s - %w", fileName, err)
	}
	// close file
	err = file.Close()
	if err != nil {
		return nil, fmt.Errorf("unable to close %s - %w", fileName, err)
	}

	return fileBytes, nil
}

// CreateFile opens fileName for writing, creating its directory when missing.
func CreateFile(dir string, fileName string) (*os.File, error) {
	if fileName == "" {
		return nil, errors.New("no filename supplied")
	}
	if dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			err = os.MkdirAll(dir, os.ModePerm)
			if err != nil {
				return nil, fmt.Errorf("unable to create folder %s - %w", dir, err)
			}
		}
	}
	file, err := os.Create(fileName)
	if err != nil {
		return nil, fmt.Errorf("unable to create file %s - %w", fileName, err)
	}
	return file, nil
}

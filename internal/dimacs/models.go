package dimacs

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ParseModels reads a model file: one line per model, each a space
// separated list of signed literals terminated by 0 (ported from the
// teacher's models.go, unchanged in shape). The "s"/"v"-prefixed lines
// that WriteModel writes are not this format and fail to parse here.
func ParseModels(filename string) ([][]bool, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	models := [][]bool{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		literals := strings.Fields(line)
		model := make([]bool, 0, len(literals))

		for _, ls := range literals {
			if ls == "0" {
				continue
			}
			l, err := strconv.Atoi(ls)
			if err != nil {
				return nil, fmt.Errorf("error parsing literal %s: %w", ls, err)
			}
			model = append(model, l > 0)
		}

		models = append(models, model)
	}

	return models, nil
}

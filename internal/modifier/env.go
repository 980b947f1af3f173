package modifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// MergeEnvFile merges one KEY=VALUE pair into dotenv-format content. The
// output is rewritten in sorted key order, so repeated merges of the same
// pair are byte-stable.
func MergeEnvFile(current []byte, params Params) ([]byte, error) {
	if params.Key == "" {
		return nil, fmt.Errorf("env merge requires a variable name")
	}

	vars, err := godotenv.Unmarshal(string(current))
	if err != nil {
		return nil, fmt.Errorf("parsing env file: %w", err)
	}
	if vars == nil {
		vars = map[string]string{}
	}
	vars[params.Key] = params.Value

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(quoteEnvValue(vars[k]))
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}

// quoteEnvValue quotes values that would otherwise break the KEY=VALUE line
// format.
func quoteEnvValue(v string) string {
	if strings.ContainsAny(v, " \t\n\"'#") {
		return fmt.Sprintf("%q", v)
	}
	return v
}

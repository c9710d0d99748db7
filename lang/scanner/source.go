package scanner

import (
	"os"

	"github.com/tern-lang/tern/lang/token"
)

// TokenAndValue combines the token type with the token value in the same
// struct.
type TokenAndValue struct {
	Token token.Token
	Value token.Value
}

// ScanSource is a helper function that tokenizes a single source buffer and
// returns the file handle for position resolution along with the list of
// tokens, including the trailing EOF. The error, if non-nil, is guaranteed to
// be an ErrorList.
func ScanSource(name string, src []byte) (*token.File, []TokenAndValue, error) {
	var (
		s      Scanner
		tokVal token.Value
		el     ErrorList
		toks   []TokenAndValue
	)

	file := token.NewFile(name, len(src))
	s.Init(file, src, el.Add)
	for {
		tok := s.Scan(&tokVal)
		toks = append(toks, TokenAndValue{Token: tok, Value: tokVal})
		if tok == token.EOF {
			break
		}
	}
	el.Sort()
	return file, toks, el.Err()
}

// ScanFiles is a helper function that tokenizes the source files and returns
// the tokens grouped by the file at the same index, along with the file
// handles for position resolution. The error, if non-nil, is guaranteed to be
// an ErrorList.
func ScanFiles(files ...string) ([]*token.File, [][]TokenAndValue, error) {
	var el ErrorList

	fhs := make([]*token.File, len(files))
	tokensByFile := make([][]TokenAndValue, len(files))
	for i, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			el.Add(token.Position{Filename: file}, err.Error())
			continue
		}
		fh, toks, err := ScanSource(file, b)
		fhs[i] = fh
		tokensByFile[i] = toks
		if err != nil {
			el = append(el, err.(ErrorList)...)
		}
	}
	el.Sort()
	return fhs, tokensByFile, el.Err()
}

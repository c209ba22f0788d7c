package commands

import "github.com/42maru-ai/prospector/pkg/writer"

// serializerFor resolves the output serializer for a format and applies the
// pretty-print setting to the formats that support it.
func serializerFor(format string, pretty bool) (writer.Serializer, error) {
	ser, err := writer.ForFormat(format)
	if err != nil {
		return nil, err
	}
	switch s := ser.(type) {
	case writer.HTML:
		s.Pretty = pretty
		ser = s
	case writer.JSON:
		s.Pretty = pretty
		ser = s
	}
	return ser, nil
}

package feed

import "encoding/json"

func marshalValue(v any) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalInto(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}

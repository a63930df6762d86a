package jsonutil_test

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/eugenenazirov/example-backend/internal/jsonutil"
)

func Example() {
	type customer struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	data, _ := jsonutil.Marshal(customer{ID: 1, Name: "Alice"})
	fmt.Println(string(data))

	var decoded customer
	_ = jsonutil.Unmarshal(data, &decoded)
	fmt.Println(decoded.Name)

	// Output:
	// {"id":1,"name":"Alice","email":""}
	// Alice
}

func ExampleEncode() {
	type tag struct {
		Name string `json:"name"`
	}

	buf := &bytes.Buffer{}
	if err := jsonutil.Encode(buf, []tag{{Name: "Customers · Individual"}}); err != nil {
		fmt.Println("encode error:", err)
		return
	}
	fmt.Println(strings.TrimSpace(buf.String()))

	var decoded []tag
	if err := jsonutil.Decode(bytes.NewReader(buf.Bytes()), &decoded); err != nil {
		fmt.Println("decode error:", err)
		return
	}
	fmt.Println(decoded[0].Name)

	// Output:
	// [{"name":"Customers · Individual"}]
	// Customers · Individual
}

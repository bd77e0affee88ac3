// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-blog/pkg/pointer"
)

func TestHelpers(t *testing.T) {
	var missing *int

	assert.Equal(t, 7, *pointer.To(7))
	assert.Equal(t, 0, pointer.Val(missing))
	assert.Equal(t, 3, pointer.Or(missing, 3))
	assert.Equal(t, 9, pointer.Or(pointer.To(9), 3))

	assert.Nil(t, pointer.NonEmpty(nil))
	assert.Nil(t, pointer.NonEmpty(pointer.To("")))
	assert.Equal(t, "foo", *pointer.NonEmpty(pointer.To("foo")))
}

package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := InitSqidsEncoder(); err != nil {
		panic(err)
	}
	m.Run()
}

// 编码后再解码应还原出原始 ID 与实体类型
func TestPublicIDRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		dbID       uint
		entityType uint64
	}{
		{"文章", 1, EntityTypePost},
		{"分类", 42, EntityTypePostCategory},
		{"标签", 7, EntityTypePostTag},
		{"评论", 99999, EntityTypeComment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publicID, err := GeneratePublicID(tt.dbID, tt.entityType)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(publicID), 4)

			dbID, entityType, err := DecodePublicID(publicID)
			require.NoError(t, err)
			assert.Equal(t, tt.dbID, dbID)
			assert.Equal(t, tt.entityType, entityType)
		})
	}
}

// 不同实体类型的公共 ID 不能互相混用
func TestDecodePublicIDWithType(t *testing.T) {
	publicID, err := GeneratePublicID(10, EntityTypePost)
	require.NoError(t, err)

	dbID, err := DecodePublicIDWithType(publicID, EntityTypePost)
	require.NoError(t, err)
	assert.Equal(t, uint(10), dbID)

	_, err = DecodePublicIDWithType(publicID, EntityTypeComment)
	assert.Error(t, err)
}

func TestDecodeInvalidPublicID(t *testing.T) {
	_, _, err := DecodePublicID("!!!")
	assert.Error(t, err)
}

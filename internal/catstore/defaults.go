package catstore

import "harufuji/kakeibo/internal/models"

// DefaultCategories returns the built-in ten-member taxonomy. Order matters:
// the suggester resolves keyword ties by declared order, so supplies beats
// any later category even when both have a matching keyword.
func DefaultCategories() []models.Category {
	return []models.Category{
		{
			ID:          models.CategoryTravel,
			DisplayName: "旅費交通費",
			Icon:        "🚃",
			Keywords: []string{
				// バス代 rather than バス: the bare word is a substring of
				// too many store names (スターバックス and friends)
				"電車", "鉄道", "タクシー", "バス代", "新幹線", "航空", "空港",
				"suica", "pasmo", "icoca", "jr", "メトロ", "ガソリン", "駐車",
				"高速", "etc", "ホテル", "宿泊",
			},
		},
		{
			ID:          models.CategoryCommunication,
			DisplayName: "通信費",
			Icon:        "📮",
			Keywords: []string{
				"切手", "郵便", "ゆうパック", "レターパック", "携帯", "スマホ",
				"docomo", "ドコモ", "softbank", "ソフトバンク", "楽天モバイル",
				"プロバイダ", "インターネット", "wi-fi", "sim",
			},
		},
		{
			ID:          models.CategorySupplies,
			DisplayName: "消耗品費",
			Icon:        "🖇️",
			Keywords: []string{
				"コピー用紙", "用紙", "文房具", "文具", "事務用品", "インク",
				"トナー", "電池", "amazon", "アマゾン", "アスクル", "askul",
				"ヨドバシ", "ホームセンター", "百均", "ダイソー",
			},
		},
		{
			ID:          models.CategoryEntertainment,
			DisplayName: "接待交際費",
			Icon:        "🍶",
			Keywords: []string{
				"居酒屋", "料亭", "接待", "宴会", "贈答", "ギフト", "お土産",
				"手土産", "バー", "スナック",
			},
		},
		{
			ID:          models.CategoryMeeting,
			DisplayName: "会議費",
			Icon:        "☕",
			Keywords: []string{
				"会議", "打合せ", "カフェ", "喫茶", "コーヒー", "スターバックス",
				"ドトール", "タリーズ", "ルノアール",
			},
		},
		{
			ID:          models.CategoryUtilities,
			DisplayName: "水道光熱費",
			Icon:        "💡",
			Keywords: []string{
				"電気", "電力", "ガス", "水道", "灯油",
			},
		},
		{
			ID:          models.CategoryBooks,
			DisplayName: "新聞図書費",
			Icon:        "📚",
			Keywords: []string{
				"書店", "書籍", "本屋", "新聞", "雑誌", "kindle", "ブック",
				"紀伊國屋", "ジュンク堂",
			},
		},
		{
			ID:          models.CategoryAdvertising,
			DisplayName: "広告宣伝費",
			Icon:        "📣",
			Keywords: []string{
				"広告", "宣伝", "印刷", "チラシ", "名刺", "ポスター", "看板",
			},
		},
		{
			ID:          models.CategoryOutsourcing,
			DisplayName: "外注工賃",
			Icon:        "🤝",
			Keywords: []string{
				"外注", "業務委託", "委託料", "デザイン料", "翻訳料",
			},
		},
		miscCategory(),
	}
}

// miscCategory is the catch-all fallback; it matches nothing by keyword.
func miscCategory() models.Category {
	return models.Category{
		ID:          models.CategoryMisc,
		DisplayName: "雑費",
		Icon:        "🧾",
		Keywords:    nil,
	}
}

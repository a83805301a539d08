package course

// DefaultCatalog is the center's published course list.
func DefaultCatalog() []Category {
	return []Category{
		{
			Title: "Khóa đào tạo dài hạn",
			Courses: []Course{
				{ID: 1, Name: "Ngành Lập trình viên Quốc tế - Aptech", Classes: classes(
					"Kỹ sư Kỹ thuật Phần mềm",
					"Kỹ sư Công nghệ thông tin",
					"Kỹ sư Truyền thông đa phương tiện",
					"Cử nhân Logistics và Quản lý chuỗi cung ứng",
				)},
				{ID: 2, Name: "Ngành Mỹ thuật Đa phương tiện Quốc tế - Arena", Classes: classes(
					"Kỹ sư Truyền thông Đa phương tiện",
					"Kỹ sư Công nghệ thông tin",
					"Kỹ sư Kỹ thuật Phần mềm",
					"Cử nhân Logistics và Quản lý chuỗi cung ứng",
				)},
			},
		},
		{
			Title: "Khóa đào tạo ngắn hạn",
			Courses: []Course{
				{ID: 1, Name: "Khóa học trực tuyến", Classes: classes(
					"Xây dựng Ứng dụng Web với Node.js và Express.JS Framework",
					"Kiểm thử phần mềm cơ bản, Module 1",
					"Thiết kế Đồ Họa cho Quảng cáo",
					"Quản trị và an ninh mạng",
					"Kiểm thử phần mềm tự động, Module 2",
					"Lập trình ứng dụng đa nền tảng với Flutter",
					"Phát triển ứng dụng Web với LARAVEL và ANGULARJS",
					"Thiết kế Web và lập trình Front-end",
					"Lập trình Back-end với PHP và MySQL",
					"Thiết kế giao diện UI/UX Website bằng Figma",
				)},
				{ID: 2, Name: "Khóa học trực tiếp", Classes: classes(
					"Trí tuệ nhân tạo cho nhân viên văn phòng",
					"Thiết kế đồ họa cho quảng cáo",
					"Phân tích dữ liệu thông minh với Power BI và GenAI",
				)},
			},
		},
		{
			Title: "Khóa đào tạo STEAM",
			Courses: []Course{
				{ID: 1, Name: "Khóa đào tạo STEAM", Classes: classes(
					"Phát triển tư duy với Python",
					"Phát triển tư duy với lập trình Arduino",
					"Thiết kế web sáng tạo",
				)},
			},
		},
	}
}

func classes(names ...string) []Class {
	out := make([]Class, 0, len(names))
	for _, n := range names {
		out = append(out, Class{Name: n})
	}
	return out
}

// Package modeltest builds a representative program model for tests.
package modeltest

import "reflq/internal/model"

// Fixture names every entity of the sample program:
//
//	namespace N {
//	  struct Tag {};
//	  struct [[Tag{7}]] Widget {
//	    int a;
//	  public:
//	    int b;
//	    mutable int c : 3;
//	    static constexpr int count = 3;
//	    Widget() noexcept = default;
//	    Widget(const Widget&);
//	    Widget(Widget&&);
//	    virtual ~Widget();
//	    virtual void draw() const = 0;
//	    Widget& operator=(const Widget&);
//	    static Widget make();
//	    explicit operator bool() const;
//	    enum class Mode { On, Off };
//	  };
//	  struct Gadget;                       // declared, never defined
//	  struct Derived final : Widget { void draw() const override; };
//	  union Bits { int i; float f; };
//	  enum Color { Red, Green };
//	  int global = 1;
//	  static int hidden;
//	  extern thread_local int tls;
//	  constexpr int answer() noexcept;
//	  inline int answer() noexcept { return 42; }
//	  typedef Widget W;
//	  using WPtr = Widget *;
//	  template <class T> struct Box {};
//	  template <> struct Box<char> {};
//	  template <class T> struct Box<T *> {};
//	  template struct Box<long>;           // explicit instantiation
//	  Box<int> boxed;                      // implicit instantiation of Box<int>
//	  template <class T> void apply(T);
//	  template <class T> concept Small = sizeof(T) < 8;
//	  inline namespace v1 {}
//	  void run(int arg) { int local; }
//	}
//	namespace NA = N;
//	namespace {}
type Fixture struct {
	Program *model.Program

	N, V1, Anon, NA                                     model.DeclID
	Tag, Widget, WidgetInjected                         model.DeclID
	A, PublicSpec, B, C, Count                          model.DeclID
	DefaultCtor, CopyCtor, MoveCtor, Dtor, Draw, Assign model.DeclID
	Make, ToBool, Mode, On, Off                         model.DeclID
	Gadget, Derived, DerivedDraw, Bits, BitsI           model.DeclID
	Color, Red, Green                                   model.DeclID
	Global, Hidden, TLS, Answer, AnswerDef              model.DeclID
	W, WPtr                                             model.DeclID
	Box, BoxT, BoxPattern, BoxChar, BoxPtr, BoxLong     model.DeclID
	BoxInt, Boxed, Apply, ApplyPattern, Small           model.DeclID
	Run, Arg, Local                                     model.DeclID

	TagType, WidgetType, ConstWidgetType, WType, IntType  model.TypeID
	WidgetPtrType, IntArrayType, FnPtrType, MemberPtrType model.TypeID
	MemberFnPtrType, IntRRefType, IntLRefType             model.TypeID

	RefGlobal, Lit42, LitStr, MoveExpr, Call model.ExprID

	DerivedBase model.BaseID
}

// New builds the fixture program.
func New() *Fixture {
	f := &Fixture{}
	b := model.NewBuilder(nil)
	tt := b.Types()
	bi := tt.Builtins()
	tu := b.TranslationUnit()
	id := b.Ident
	f.IntType = bi.Int

	f.N = b.Add(model.Decl{Kind: model.DeclNamespace, Name: id("N"), Parent: tu, Linkage: model.LinkageExternal})

	f.Tag = b.Add(model.Decl{Kind: model.DeclRecord, Name: id("Tag"), Parent: f.N, Tag: model.TagStruct,
		Linkage: model.LinkageExternal, Flags: model.FlagDefinition | model.FlagEmpty})
	f.TagType = b.Decl(f.Tag).Type

	f.Widget = b.Add(model.Decl{Kind: model.DeclRecord, Name: id("Widget"), Parent: f.N, Tag: model.TagStruct,
		Linkage: model.LinkageExternal,
		Flags:   model.FlagDefinition | model.FlagPolymorphic | model.FlagAbstract,
		Attrs:   []model.UserAttr{{Type: f.TagType, Value: model.IntValue(7)}},
	})
	f.WidgetType = b.Decl(f.Widget).Type
	f.ConstWidgetType = tt.Intern(model.MakeQualified(f.WidgetType, model.QualConst))
	constWidgetRef := tt.Intern(model.MakeLValueRef(f.ConstWidgetType))
	widgetRef := tt.Intern(model.MakeLValueRef(f.WidgetType))
	widgetRRef := tt.Intern(model.MakeRValueRef(f.WidgetType))
	voidFn := tt.Function(nil, bi.Void, false)

	member := func(d model.Decl) model.DeclID {
		d.Parent = f.Widget
		d.Linkage = model.LinkageExternal
		if d.Access == model.AccessNone {
			d.Access = model.AccessPublic
		}
		return b.Add(d)
	}
	f.A = member(model.Decl{Kind: model.DeclField, Name: id("a"), Type: bi.Int})
	f.PublicSpec = member(model.Decl{Kind: model.DeclAccessSpec})
	f.B = member(model.Decl{Kind: model.DeclField, Name: id("b"), Type: bi.Int})
	f.C = member(model.Decl{Kind: model.DeclField, Name: id("c"), Type: bi.Int,
		Flags: model.FlagMutable | model.FlagBitField})
	f.Count = member(model.Decl{Kind: model.DeclVar, Name: id("count"),
		Type:    tt.Intern(model.MakeQualified(bi.Int, model.QualConst)),
		Storage: model.StorageStatic,
		Flags:   model.FlagStatic | model.FlagConstexpr | model.FlagInline | model.FlagDefinition})
	f.DefaultCtor = member(model.Decl{Kind: model.DeclConstructor, Name: id("Widget"), NameKind: model.NameConstructor,
		Type:  tt.Function(nil, bi.Void, true),
		Flags: model.FlagDefinition | model.FlagDefaulted | model.FlagInline | model.FlagTrivial | model.FlagDefaultCtor})
	f.CopyCtor = member(model.Decl{Kind: model.DeclConstructor, Name: id("Widget"), NameKind: model.NameConstructor,
		Type: tt.Function([]model.TypeID{constWidgetRef}, bi.Void, false), Flags: model.FlagCopyCtor})
	f.MoveCtor = member(model.Decl{Kind: model.DeclConstructor, Name: id("Widget"), NameKind: model.NameConstructor,
		Type: tt.Function([]model.TypeID{widgetRRef}, bi.Void, false), Flags: model.FlagMoveCtor})
	f.Dtor = member(model.Decl{Kind: model.DeclDestructor, Name: id("~Widget"), NameKind: model.NameDestructor,
		Type: tt.Function(nil, bi.Void, true), Flags: model.FlagVirtual})
	f.Draw = member(model.Decl{Kind: model.DeclMethod, Name: id("draw"), Type: voidFn,
		Flags: model.FlagVirtual | model.FlagPure})
	f.Assign = member(model.Decl{Kind: model.DeclMethod, Name: id("operator="), NameKind: model.NameOperator,
		Type: tt.Function([]model.TypeID{constWidgetRef}, widgetRef, false), Flags: model.FlagCopyAssign})
	f.Make = member(model.Decl{Kind: model.DeclMethod, Name: id("make"), Type: tt.Function(nil, f.WidgetType, false),
		Flags: model.FlagStatic})
	f.ToBool = member(model.Decl{Kind: model.DeclConversion, Name: id("operator bool"), NameKind: model.NameConversion,
		Type: tt.Function(nil, bi.Bool, false), Flags: model.FlagExplicit})
	f.Mode = member(model.Decl{Kind: model.DeclEnum, Name: id("Mode"), Flags: model.FlagScoped | model.FlagDefinition})
	f.On = b.Add(model.Decl{Kind: model.DeclEnumConstant, Name: id("On"), Parent: f.Mode, Type: b.Decl(f.Mode).Type,
		Access: model.AccessPublic, Linkage: model.LinkageExternal})
	f.Off = b.Add(model.Decl{Kind: model.DeclEnumConstant, Name: id("Off"), Parent: f.Mode, Type: b.Decl(f.Mode).Type,
		Access: model.AccessPublic, Linkage: model.LinkageExternal})

	f.Gadget = b.Add(model.Decl{Kind: model.DeclRecord, Name: id("Gadget"), Parent: f.N, Tag: model.TagStruct,
		Linkage: model.LinkageExternal})

	f.Derived = b.Add(model.Decl{Kind: model.DeclRecord, Name: id("Derived"), Parent: f.N, Tag: model.TagStruct,
		Linkage: model.LinkageExternal, Flags: model.FlagDefinition | model.FlagPolymorphic | model.FlagFinal})
	f.DerivedDraw = b.Add(model.Decl{Kind: model.DeclMethod, Name: id("draw"), Parent: f.Derived, Type: voidFn,
		Access: model.AccessPublic, Linkage: model.LinkageExternal,
		Flags: model.FlagVirtual | model.FlagOverride | model.FlagDefinition | model.FlagInline})
	f.DerivedBase = b.AddBase(model.BaseSpecifier{Owner: f.Derived, Type: f.WidgetType, Access: model.AccessPublic})

	f.Bits = b.Add(model.Decl{Kind: model.DeclRecord, Name: id("Bits"), Parent: f.N, Tag: model.TagUnion,
		Linkage: model.LinkageExternal, Flags: model.FlagDefinition})
	f.BitsI = b.Add(model.Decl{Kind: model.DeclField, Name: id("i"), Parent: f.Bits, Type: bi.Int, Access: model.AccessPublic})
	b.Add(model.Decl{Kind: model.DeclField, Name: id("f"), Parent: f.Bits, Type: bi.Float, Access: model.AccessPublic})

	f.Color = b.Add(model.Decl{Kind: model.DeclEnum, Name: id("Color"), Parent: f.N, Linkage: model.LinkageExternal,
		Flags: model.FlagDefinition})
	f.Red = b.Add(model.Decl{Kind: model.DeclEnumConstant, Name: id("Red"), Parent: f.Color,
		Type: b.Decl(f.Color).Type, Linkage: model.LinkageExternal})
	f.Green = b.Add(model.Decl{Kind: model.DeclEnumConstant, Name: id("Green"), Parent: f.Color,
		Type: b.Decl(f.Color).Type, Linkage: model.LinkageExternal})

	f.Global = b.Add(model.Decl{Kind: model.DeclVar, Name: id("global"), Parent: f.N, Type: bi.Int,
		Linkage: model.LinkageExternal, Storage: model.StorageStatic, Flags: model.FlagDefinition})
	f.Hidden = b.Add(model.Decl{Kind: model.DeclVar, Name: id("hidden"), Parent: f.N, Type: bi.Int,
		Linkage: model.LinkageInternal, Storage: model.StorageStatic, Flags: model.FlagDefinition | model.FlagStatic})
	f.TLS = b.Add(model.Decl{Kind: model.DeclVar, Name: id("tls"), Parent: f.N, Type: bi.Int,
		Linkage: model.LinkageExternal, Storage: model.StorageThread})

	answerFn := tt.Function(nil, bi.Int, true)
	f.Answer = b.Add(model.Decl{Kind: model.DeclFunction, Name: id("answer"), Parent: f.N, Type: answerFn,
		Linkage: model.LinkageExternal, Flags: model.FlagConstexpr})
	f.AnswerDef = b.Redeclare(f.Answer, model.Decl{Type: answerFn, Linkage: model.LinkageExternal,
		Flags: model.FlagConstexpr | model.FlagInline | model.FlagDefinition})

	f.W = b.Add(model.Decl{Kind: model.DeclTypedef, Name: id("W"), Parent: f.N, Type: f.WidgetType})
	f.WType = b.Decl(f.W).Type
	f.WidgetPtrType = tt.Intern(model.MakePointer(f.WidgetType))
	f.WPtr = b.Add(model.Decl{Kind: model.DeclTypeAlias, Name: id("WPtr"), Parent: f.N, Type: f.WidgetPtrType})

	f.Box = b.Add(model.Decl{Kind: model.DeclClassTemplate, Name: id("Box"), Parent: f.N, Linkage: model.LinkageExternal})
	f.BoxT = b.Add(model.Decl{Kind: model.DeclTemplateTypeParm, Name: id("T"), Parent: f.Box})
	f.BoxPattern = b.Add(model.Decl{Kind: model.DeclRecord, Name: id("Box"), Parent: f.N, LexicalParent: f.Box,
		Tag: model.TagStruct, Linkage: model.LinkageExternal, Flags: model.FlagDefinition | model.FlagEmpty})
	b.Decl(f.Box).Target = f.BoxPattern
	spec := func(args string, kind model.SpecializationKind, shape model.SpecializationShape) model.DeclID {
		return b.Add(model.Decl{Kind: model.DeclRecord, Name: id("Box"), Args: b.Strings().Intern(args),
			Parent: f.N, Tag: model.TagStruct, Linkage: model.LinkageExternal,
			Flags: model.FlagDefinition | model.FlagEmpty, SpecKind: kind, Shape: shape, Target: f.Box})
	}
	f.BoxChar = spec("<char>", model.SpecExplicitSpecialization, model.ShapeFull)
	f.BoxPtr = spec("<T *>", model.SpecExplicitSpecialization, model.ShapePartial)
	f.BoxLong = spec("<long>", model.SpecExplicitInstantiationDefinition, model.ShapeFull)
	f.BoxInt = spec("<int>", model.SpecImplicitInstantiation, model.ShapeFull)
	f.Boxed = b.Add(model.Decl{Kind: model.DeclVar, Name: id("boxed"), Parent: f.N, Type: b.Decl(f.BoxInt).Type,
		Linkage: model.LinkageExternal, Storage: model.StorageStatic, Flags: model.FlagDefinition})

	f.Apply = b.Add(model.Decl{Kind: model.DeclFunctionTemplate, Name: id("apply"), Parent: f.N, Linkage: model.LinkageExternal})
	applyT := b.Add(model.Decl{Kind: model.DeclTemplateTypeParm, Name: id("T"), Parent: f.Apply})
	f.ApplyPattern = b.Add(model.Decl{Kind: model.DeclFunction, Name: id("apply"), Parent: f.N, LexicalParent: f.Apply,
		Type: tt.Function([]model.TypeID{b.Decl(applyT).Type}, bi.Void, false), Linkage: model.LinkageExternal})
	b.Decl(f.Apply).Target = f.ApplyPattern

	f.Small = b.Add(model.Decl{Kind: model.DeclConcept, Name: id("Small"), Parent: f.N})

	f.V1 = b.Add(model.Decl{Kind: model.DeclNamespace, Name: id("v1"), Parent: f.N, Linkage: model.LinkageExternal,
		Flags: model.FlagInline})

	f.Run = b.Add(model.Decl{Kind: model.DeclFunction, Name: id("run"), Parent: f.N,
		Type: tt.Function([]model.TypeID{bi.Int}, bi.Void, false), Linkage: model.LinkageExternal,
		Flags: model.FlagDefinition})
	f.Arg = b.Add(model.Decl{Kind: model.DeclParmVar, Name: id("arg"), Parent: f.Run, Type: bi.Int})
	f.Local = b.Add(model.Decl{Kind: model.DeclVar, Name: id("local"), Parent: f.Run, Type: bi.Int,
		Storage: model.StorageAutomatic, Flags: model.FlagDefinition})

	f.NA = b.Add(model.Decl{Kind: model.DeclNamespaceAlias, Name: id("NA"), Parent: tu, Target: f.N})
	f.Anon = b.Add(model.Decl{Kind: model.DeclNamespace, Parent: tu, Linkage: model.LinkageInternal})

	f.IntArrayType = tt.Intern(model.MakeArray(bi.Int, 3))
	f.FnPtrType = tt.Intern(model.MakePointer(tt.Function([]model.TypeID{bi.Int}, bi.Void, false)))
	f.MemberPtrType = tt.Intern(model.MakeMemberPointer(f.WidgetType, bi.Int, false))
	f.MemberFnPtrType = tt.Intern(model.MakeMemberPointer(f.WidgetType, voidFn, true))
	f.IntLRefType = tt.Intern(model.MakeLValueRef(bi.Int))
	f.IntRRefType = tt.Intern(model.MakeRValueRef(bi.Int))

	f.RefGlobal = b.AddExpr(model.Expr{Kind: model.ExprDeclRef, Name: id("ref_global"), Category: model.LValue,
		Type: bi.Int, Decl: f.Global})
	f.Lit42 = b.AddExpr(model.Expr{Kind: model.ExprIntegerLiteral, Name: id("lit42"), Type: bi.Int,
		Value: model.IntValue(42)})
	f.LitStr = b.AddExpr(model.Expr{Kind: model.ExprStringLiteral, Name: id("lit_str"), Category: model.LValue,
		Type: tt.Intern(model.MakeArray(tt.Intern(model.MakeQualified(bi.Char, model.QualConst)), 3)),
		Value: model.StringValue("hi")})
	f.MoveExpr = b.AddExpr(model.Expr{Kind: model.ExprOther, Name: id("moved"), Category: model.XValue,
		Type: widgetRRef})
	f.Call = b.AddExpr(model.Expr{Kind: model.ExprCall, Name: id("call_answer"), Type: bi.Int})

	f.Program = b.Build()
	f.WidgetInjected = f.Program.FirstInContext(f.Widget)
	return f
}
